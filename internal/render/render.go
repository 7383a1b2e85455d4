// # internal/render/render.go
package render

import (
	"fmt"
	"strings"

	"plsqldoc/internal/markup"
)

// Generator renders one processed document into a target format.
type Generator interface {
	Generate(doc *markup.Document) (string, error)
	Ext() string
}

// ForFormat returns the generator for a configured format name.
func ForFormat(format, project string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "html":
		return NewHTMLGenerator(project), nil
	case "markdown", "md":
		return NewMarkdownGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// relativeDocPath builds the href from one document to another, both
// given as project-relative names. Same-document links keep only the
// fragment.
func relativeDocPath(from, to, ext string) string {
	if from == to {
		return ""
	}
	ups := strings.Count(from, "/")
	return strings.Repeat("../", ups) + to + ext
}
