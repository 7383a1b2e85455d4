// # internal/xref/resolver.go
package xref

import (
	"plsqldoc/internal/index"
	"plsqldoc/internal/markup"
)

// Fallback looks up names this project does not define, typically an
// imported inventory of another project's published objects. A hit
// yields an absolute URL.
type Fallback interface {
	Lookup(name string) (url string, ok bool)
}

// Resolver turns reference targets into navigable links against the
// symbol index. Lookup is by exact fully qualified name; the role a
// reference was written with never narrows it.
type Resolver struct {
	index    *index.Index
	fallback Fallback
}

func New(ix *index.Index, fallback Fallback) *Resolver {
	return &Resolver{index: ix, fallback: fallback}
}

// Resolve looks up a target name. On a hit the link carries the
// defining document and the canonical name as anchor; the display title
// is the explicit title when one was written, else the target itself.
// A miss returns false and the caller renders the title as plain text,
// never an error.
func (r *Resolver) Resolve(target, explicitTitle string) (markup.Link, bool) {
	title := explicitTitle
	if title == "" {
		title = target
	}

	// 1. Exact match in the project index.
	if sym, ok := r.index.Lookup(target); ok {
		return markup.Link{Title: title, Doc: sym.Doc, Anchor: sym.Name}, true
	}

	// 2. Imported inventories of other projects.
	if r.fallback != nil {
		if url, ok := r.fallback.Lookup(target); ok {
			return markup.Link{Title: title, URL: url}, true
		}
	}

	return markup.Link{}, false
}

// Outcome counts one resolution pass.
type Outcome struct {
	Resolved   int // links into this project
	External   int // links via imported inventories
	Unresolved int // left as plain text
}

func (o *Outcome) add(other Outcome) {
	o.Resolved += other.Resolved
	o.External += other.External
	o.Unresolved += other.Unresolved
}

// Apply rewrites every Ref in the given blocks: resolved references
// become Links, unresolved ones become plain text of their title.
// Declarations are rewritten in place, including members.
func (r *Resolver) Apply(blocks []markup.Node) ([]markup.Node, Outcome) {
	var out Outcome
	rewritten := r.applyNodes(blocks, &out)
	return rewritten, out
}

func (r *Resolver) applyNodes(nodes []markup.Node, out *Outcome) []markup.Node {
	if nodes == nil {
		return nil
	}
	res := make([]markup.Node, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, r.applyNode(n, out))
	}
	return res
}

func (r *Resolver) applyNode(n markup.Node, out *Outcome) markup.Node {
	switch t := n.(type) {
	case markup.Ref:
		explicit := ""
		if t.Explicit {
			explicit = t.Title
		}
		link, ok := r.Resolve(t.Target, explicit)
		if !ok {
			out.Unresolved++
			title := t.Title
			if title == "" {
				title = t.Target
			}
			return markup.Text{Value: title}
		}
		if link.URL != "" {
			out.External++
		} else {
			out.Resolved++
		}
		return link
	case markup.Paragraph:
		t.Children = r.applyNodes(t.Children, out)
		return t
	case markup.BulletList:
		for i := range t.Items {
			t.Items[i].Children = r.applyNodes(t.Items[i].Children, out)
		}
		return t
	case markup.ListItem:
		t.Children = r.applyNodes(t.Children, out)
		return t
	case markup.FieldList:
		for i := range t.Fields {
			t.Fields[i].Body = r.applyNodes(t.Fields[i].Body, out)
		}
		return t
	case markup.Field:
		t.Body = r.applyNodes(t.Body, out)
		return t
	case *markup.Declaration:
		t.Body = r.applyNodes(t.Body, out)
		if t.Fields != nil {
			for i := range t.Fields.Fields {
				t.Fields.Fields[i].Body = r.applyNodes(t.Fields.Fields[i].Body, out)
			}
		}
		for _, member := range t.Members {
			r.applyNode(member, out)
		}
		return t
	default:
		return n
	}
}
