// # internal/render/markdown.go
package render

import (
	"fmt"
	"strings"

	"plsqldoc/internal/markup"
)

// MarkdownGenerator renders processed documents as CommonMark pages.
type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (g *MarkdownGenerator) Ext() string {
	return ".md"
}

func (g *MarkdownGenerator) Generate(doc *markup.Document) (string, error) {
	var b strings.Builder
	for _, block := range doc.Blocks {
		g.writeBlock(&b, doc.Name, block, 2)
	}
	return b.String(), nil
}

func (g *MarkdownGenerator) writeBlock(b *strings.Builder, docName string, n markup.Node, depth int) {
	switch t := n.(type) {
	case markup.Heading:
		level := t.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		b.WriteString(strings.Repeat("#", level) + " " + t.Text + "\n\n")
	case markup.Paragraph:
		b.WriteString(g.inlines(docName, t.Children) + "\n\n")
	case *markup.Declaration:
		g.writeDecl(b, docName, t, depth)
	case markup.BulletList:
		for _, item := range t.Items {
			b.WriteString("- " + g.inlines(docName, item.Children) + "\n")
		}
		b.WriteString("\n")
	case markup.FieldList:
		g.writeFieldList(b, docName, t, depth)
	default:
		b.WriteString(g.inline(docName, n) + "\n\n")
	}
}

func (g *MarkdownGenerator) writeDecl(b *strings.Builder, docName string, decl *markup.Declaration, depth int) {
	if depth > 6 {
		depth = 6
	}
	if decl.Sig.Anchor != "" {
		b.WriteString(fmt.Sprintf("<a id=\"%s\"></a>\n\n", decl.Sig.Anchor))
	}

	b.WriteString(strings.Repeat("#", depth) + " " + signatureLine(decl.Sig) + "\n\n")

	for _, n := range decl.Body {
		g.writeBlock(b, docName, n, depth+1)
	}
	if decl.Fields != nil && len(decl.Fields.Fields) > 0 {
		g.writeFieldList(b, docName, *decl.Fields, depth)
	}
	for _, member := range decl.Members {
		g.writeDecl(b, docName, member, depth+1)
	}
}

func (g *MarkdownGenerator) writeFieldList(b *strings.Builder, docName string, fl markup.FieldList, depth int) {
	for _, f := range fl.Fields {
		b.WriteString("**" + f.Label + ":**\n\n")
		for _, n := range f.Body {
			g.writeBlock(b, docName, n, depth+1)
		}
	}
}

func (g *MarkdownGenerator) inlines(docName string, nodes []markup.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(g.inline(docName, n))
	}
	return b.String()
}

func (g *MarkdownGenerator) inline(docName string, n markup.Node) string {
	switch t := n.(type) {
	case markup.Text:
		return t.Value
	case markup.Strong:
		return "**" + t.Value + "**"
	case markup.Literal:
		return "`" + t.Value + "`"
	case markup.Link:
		return fmt.Sprintf("[%s](%s)", t.Title, g.hrefFor(docName, t))
	case markup.Ref:
		return t.Title
	case markup.Paragraph:
		return g.inlines(docName, t.Children)
	default:
		return markup.PlainText([]markup.Node{n})
	}
}

func (g *MarkdownGenerator) hrefFor(docName string, link markup.Link) string {
	if link.URL != "" {
		return link.URL
	}
	href := relativeDocPath(docName, link.Doc, ".md")
	if link.Anchor != "" {
		href += "#" + link.Anchor
	}
	return href
}

func signatureLine(sig markup.SignatureInfo) string {
	var b strings.Builder
	b.WriteString(sig.Annotation)
	b.WriteString("`")
	b.WriteString(sig.Prefix)
	b.WriteString(sig.Name)
	if len(sig.Params) > 0 {
		b.WriteString("(" + strings.Join(sig.Params, ", ") + ")")
	}
	if sig.Return != "" {
		b.WriteString(" return " + sig.Return)
	}
	b.WriteString("`")
	return b.String()
}
