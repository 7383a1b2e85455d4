package ords

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"plsqldoc/internal/markup"
	"plsqldoc/internal/plsql"
)

// handlerExtension names the PL/SQL unit behind an endpoint in an ORDS
// OpenAPI export.
const handlerExtension = "x-plsql-handler"

// Operation is one REST endpoint extracted from the spec.
type Operation struct {
	Method      string
	Path        string
	Summary     string
	Description string
	Handler     string // qualified PL/SQL name, empty when not annotated
}

// Operations flattens the spec into endpoint descriptors sorted by path
// then method.
func Operations(spec *openapi3.T) ([]Operation, error) {
	if spec == nil {
		return nil, fmt.Errorf("openapi spec is nil")
	}
	if spec.Paths == nil {
		return nil, fmt.Errorf("openapi spec has no paths")
	}

	pathMap := spec.Paths.Map()
	if len(pathMap) == 0 {
		return nil, fmt.Errorf("openapi spec has no operations")
	}

	ops := make([]Operation, 0, len(pathMap))
	for path, pathItem := range pathMap {
		if pathItem == nil {
			continue
		}
		for method, operation := range pathItem.Operations() {
			if operation == nil {
				continue
			}
			ops = append(ops, Operation{
				Method:      strings.ToUpper(method),
				Path:        path,
				Summary:     strings.TrimSpace(operation.Summary),
				Description: strings.TrimSpace(operation.Description),
				Handler:     extString(operation.Extensions, handlerExtension),
			})
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return ops, nil
}

// Page assembles the REST reference document. Handler names become
// object references so the resolve pass links them into the PL/SQL
// pages.
func Page(docName, title string, ops []Operation) *markup.Document {
	blocks := make([]markup.Node, 0, 1+3*len(ops))
	blocks = append(blocks, markup.Heading{Level: 1, Text: title})

	for _, op := range ops {
		blocks = append(blocks, markup.Heading{Level: 2, Text: op.Method + " " + op.Path})
		if op.Summary != "" {
			blocks = append(blocks, markup.Paragraph{Children: []markup.Node{
				markup.Text{Value: op.Summary},
			}})
		}
		if op.Description != "" {
			blocks = append(blocks, markup.Paragraph{Children: []markup.Node{
				markup.Text{Value: op.Description},
			}})
		}
		if op.Handler != "" {
			blocks = append(blocks, markup.Paragraph{Children: []markup.Node{
				markup.Text{Value: "Handled by "},
				markup.Ref{Role: plsql.RoleObj, Target: op.Handler, Title: op.Handler},
				markup.Text{Value: "."},
			}})
		}
	}

	return &markup.Document{
		Name:   docName,
		Title:  title,
		Blocks: blocks,
	}
}

func extString(ext map[string]any, key string) string {
	raw, ok := ext[key]
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
