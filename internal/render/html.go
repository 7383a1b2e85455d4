// # internal/render/html.go
package render

import (
	"fmt"
	"html"
	"strings"

	"plsqldoc/internal/markup"
)

// HTMLGenerator renders processed documents as standalone HTML pages.
type HTMLGenerator struct {
	project string
}

func NewHTMLGenerator(project string) *HTMLGenerator {
	return &HTMLGenerator{project: project}
}

func (g *HTMLGenerator) Ext() string {
	return ".html"
}

func (g *HTMLGenerator) Generate(doc *markup.Document) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")

	title := doc.Title
	if g.project != "" {
		title = fmt.Sprintf("%s | %s", doc.Title, g.project)
	}
	b.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	b.WriteString("<style>\n")
	b.WriteString(defaultCSS)
	b.WriteString("</style>\n</head>\n<body>\n<main>\n")

	for _, block := range doc.Blocks {
		g.writeBlock(&b, doc.Name, block)
	}

	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String(), nil
}

func (g *HTMLGenerator) writeBlock(b *strings.Builder, docName string, n markup.Node) {
	switch t := n.(type) {
	case markup.Heading:
		level := t.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		b.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", level, html.EscapeString(t.Text), level))
	case markup.Paragraph:
		b.WriteString("<p>")
		g.writeInlines(b, docName, t.Children)
		b.WriteString("</p>\n")
	case *markup.Declaration:
		g.writeDecl(b, docName, t)
	case markup.BulletList:
		b.WriteString("<ul>\n")
		for _, item := range t.Items {
			b.WriteString("<li>")
			g.writeInlines(b, docName, item.Children)
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n")
	case markup.FieldList:
		g.writeFieldList(b, docName, t)
	default:
		// Stray inline node at block level.
		b.WriteString("<p>")
		g.writeInline(b, docName, n)
		b.WriteString("</p>\n")
	}
}

func (g *HTMLGenerator) writeDecl(b *strings.Builder, docName string, decl *markup.Declaration) {
	b.WriteString(fmt.Sprintf("<dl class=\"plsql %s\">\n", html.EscapeString(string(decl.Kind))))

	if decl.Sig.Anchor != "" {
		b.WriteString(fmt.Sprintf("<dt id=\"%s\">", html.EscapeString(decl.Sig.Anchor)))
	} else {
		b.WriteString("<dt>")
	}
	b.WriteString(fmt.Sprintf("<em class=\"annotation\">%s</em>", html.EscapeString(decl.Sig.Annotation)))
	if decl.Sig.Prefix != "" {
		b.WriteString(fmt.Sprintf("<code class=\"prefix\">%s</code>", html.EscapeString(decl.Sig.Prefix)))
	}
	b.WriteString(fmt.Sprintf("<code class=\"name\">%s</code>", html.EscapeString(decl.Sig.Name)))
	if len(decl.Sig.Params) > 0 {
		b.WriteString("<span class=\"params\">(")
		for i, p := range decl.Sig.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("<em>%s</em>", html.EscapeString(p)))
		}
		b.WriteString(")</span>")
	}
	if decl.Sig.Return != "" {
		b.WriteString(fmt.Sprintf("<span class=\"returns\"> return %s</span>", html.EscapeString(decl.Sig.Return)))
	}
	b.WriteString("</dt>\n<dd>\n")

	for _, n := range decl.Body {
		g.writeBlock(b, docName, n)
	}
	if decl.Fields != nil && len(decl.Fields.Fields) > 0 {
		g.writeFieldList(b, docName, *decl.Fields)
	}
	for _, member := range decl.Members {
		g.writeDecl(b, docName, member)
	}

	b.WriteString("</dd>\n</dl>\n")
}

func (g *HTMLGenerator) writeFieldList(b *strings.Builder, docName string, fl markup.FieldList) {
	b.WriteString("<dl class=\"fields\">\n")
	for _, f := range fl.Fields {
		b.WriteString(fmt.Sprintf("<dt>%s</dt>\n<dd>", html.EscapeString(f.Label)))
		for _, n := range f.Body {
			g.writeBlock(b, docName, n)
		}
		b.WriteString("</dd>\n")
	}
	b.WriteString("</dl>\n")
}

func (g *HTMLGenerator) writeInlines(b *strings.Builder, docName string, nodes []markup.Node) {
	for _, n := range nodes {
		g.writeInline(b, docName, n)
	}
}

func (g *HTMLGenerator) writeInline(b *strings.Builder, docName string, n markup.Node) {
	switch t := n.(type) {
	case markup.Text:
		b.WriteString(html.EscapeString(t.Value))
	case markup.Strong:
		b.WriteString(fmt.Sprintf("<strong>%s</strong>", html.EscapeString(t.Value)))
	case markup.Literal:
		b.WriteString(fmt.Sprintf("<code>%s</code>", html.EscapeString(t.Value)))
	case markup.Link:
		b.WriteString(fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(g.hrefFor(docName, t)), html.EscapeString(t.Title)))
	case markup.Ref:
		// Unresolved references render as their display text.
		b.WriteString(html.EscapeString(t.Title))
	case markup.Paragraph:
		g.writeInlines(b, docName, t.Children)
	default:
		g.writeBlock(b, docName, n)
	}
}

func (g *HTMLGenerator) hrefFor(docName string, link markup.Link) string {
	if link.URL != "" {
		return link.URL
	}
	href := relativeDocPath(docName, link.Doc, ".html")
	if link.Anchor != "" {
		href += "#" + link.Anchor
	}
	return href
}

const defaultCSS = `body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
dl.plsql > dt { background: #f2f4f8; padding: .4rem .6rem; border-left: 3px solid #4d6480; font-size: .95rem; }
dl.plsql > dd { margin: .4rem 0 1.2rem 1.5rem; }
dl.fields > dt { font-weight: bold; margin-top: .5rem; }
dl.fields > dd { margin-left: 1.5rem; }
em.annotation { font-style: italic; margin-right: .15rem; }
code.name { font-weight: bold; }
a { color: #1558a6; }
`
