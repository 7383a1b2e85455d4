// # internal/directive/scanner.go
package directive

import (
	"log/slog"
	"regexp"
	"strings"

	"plsqldoc/internal/docfields"
	"plsqldoc/internal/markup"
	"plsqldoc/internal/plsql"
)

var (
	directiveRE = regexp.MustCompile(`^\.\.\s+plsql:([\w-]+)::\s*(.*)$`)
	commentRE   = regexp.MustCompile(`^\.\.(\s|$)`)
	optionRE    = regexp.MustCompile(`^:(\w+):\s*(.*)$`)
	fieldRE     = regexp.MustCompile(`^:(\w+)(?:\s+([^:]+))?:\s*(.*)$`)
	underlineRE = regexp.MustCompile(`^(=+|-+|~+|\^+|"+)\s*$`)
)

// Document is one scanned source file: the raw declaration directives
// plus surrounding prose, before signatures are parsed and indexed.
type Document struct {
	Name     string // document id
	Path     string // source path
	Title    string
	Blocks   []Block
	Problems []Problem // isolated scan errors, surfaced as build warnings
}

type Problem struct {
	Line int
	Msg  string
}

// Block is a top-level or body-level piece of a document.
type Block interface {
	isBlock()
}

// Prose is a paragraph of running text with inline references parsed.
type Prose struct {
	Children []markup.Node
}

// Heading is an underlined section title.
type Heading struct {
	Level int
	Text  string
}

// Decl is one plsql object directive as written: raw signature, options
// and raw field entries, with nested member directives.
type Decl struct {
	Kind    plsql.Kind
	Raw     string // unparsed signature text
	NoIndex bool
	Module  string
	Fields  []docfields.Entry
	Body    []Block
	Members []*Decl
	Line    int // 1-based source line of the directive
}

func (Prose) isBlock()   {}
func (Heading) isBlock() {}
func (*Decl) isBlock()   {}

// Parse scans one source file. Scanning never fails outright: unknown
// directives and roles are isolated into Problems or skipped, matching
// the per-declaration error model of the build.
func Parse(name, path string, src []byte) *Document {
	doc := &Document{Name: name, Path: path}
	sc := &scanner{doc: doc, lines: splitLines(src)}
	blocks, _ := sc.parseRegion(0, len(sc.lines))
	doc.Blocks = blocks

	for _, b := range blocks {
		if h, ok := b.(Heading); ok {
			doc.Title = h.Text
			break
		}
	}
	if doc.Title == "" {
		doc.Title = name
	}
	return doc
}

type scanner struct {
	doc   *Document
	lines []string
}

// parseRegion walks lines[start:end) and produces blocks plus any field
// entries found at this level. Fields only carry meaning inside a
// declaration body; elsewhere the caller drops them.
func (sc *scanner) parseRegion(start, end int) ([]Block, []docfields.Entry) {
	var blocks []Block
	var fields []docfields.Entry

	i := start
	for i < end {
		raw := sc.lines[i]
		text := strings.TrimSpace(raw)
		if text == "" {
			i++
			continue
		}
		ind := indentOf(raw)

		if m := directiveRE.FindStringSubmatch(text); m != nil {
			bodyEnd := sc.regionEnd(i+1, end, ind)
			kind, ok := plsql.ParseKind(m[1])
			if !ok {
				sc.doc.Problems = append(sc.doc.Problems, Problem{
					Line: i + 1,
					Msg:  "unknown declaration kind " + m[1],
				})
				i = bodyEnd
				continue
			}
			decl := sc.parseDecl(kind, m[2], i, i+1, bodyEnd)
			blocks = append(blocks, decl)
			i = bodyEnd
			continue
		}

		if commentRE.MatchString(text) {
			// Foreign directive or comment: skip it and its body.
			slog.Debug("skipping non-plsql directive", "doc", sc.doc.Name, "line", i+1)
			i = sc.regionEnd(i+1, end, ind)
			continue
		}

		if i+1 < end && underlineRE.MatchString(strings.TrimSpace(sc.lines[i+1])) &&
			len(strings.TrimSpace(sc.lines[i+1])) >= len(text) {
			blocks = append(blocks, Heading{Level: headingLevel(strings.TrimSpace(sc.lines[i+1])), Text: text})
			i += 2
			continue
		}

		// Inline roles start with a colon too; only treat the line as
		// a field entry when the name is not the domain prefix itself.
		if m := fieldRE.FindStringSubmatch(text); m != nil && m[1] != "plsql" {
			body, next := sc.fieldText(m[3], i+1, end, ind)
			fields = append(fields, docfields.Entry{
				Name: m[1],
				Arg:  strings.TrimSpace(m[2]),
				Body: parseInline(body),
				Line: i + 1,
			})
			i = next
			continue
		}

		para, next := sc.paragraph(i, end, ind)
		blocks = append(blocks, Prose{Children: parseInline(para)})
		i = next
	}

	return blocks, fields
}

// parseDecl consumes a declaration body: leading option lines, then
// prose, field entries and nested member directives.
func (sc *scanner) parseDecl(kind plsql.Kind, rawSig string, dirLine, bodyStart, bodyEnd int) *Decl {
	decl := &Decl{Kind: kind, Raw: strings.TrimSpace(rawSig), Line: dirLine + 1}

	i := bodyStart
	for i < bodyEnd {
		text := strings.TrimSpace(sc.lines[i])
		if text == "" {
			break
		}
		m := optionRE.FindStringSubmatch(text)
		if m == nil || (m[1] != "noindex" && m[1] != "module") {
			break
		}
		if m[1] == "noindex" {
			decl.NoIndex = true
		} else {
			decl.Module = strings.TrimSpace(m[2])
		}
		i++
	}

	blocks, fields := sc.parseRegion(i, bodyEnd)
	decl.Fields = fields
	for _, b := range blocks {
		if member, ok := b.(*Decl); ok {
			decl.Members = append(decl.Members, member)
			continue
		}
		decl.Body = append(decl.Body, b)
	}
	return decl
}

// regionEnd finds the end of the indented region belonging to a marker
// at the given indent: lines stay in the region while blank or indented
// deeper than the marker.
func (sc *scanner) regionEnd(start, end, indent int) int {
	i := start
	for i < end {
		raw := sc.lines[i]
		if strings.TrimSpace(raw) == "" {
			i++
			continue
		}
		if indentOf(raw) <= indent {
			break
		}
		i++
	}
	// Trim trailing blank run back out of the region.
	for i > start && strings.TrimSpace(sc.lines[i-1]) == "" {
		i--
	}
	return i
}

// fieldText joins a field entry with its indented continuation lines.
func (sc *scanner) fieldText(first string, start, end, indent int) (string, int) {
	parts := []string{strings.TrimSpace(first)}
	i := start
	for i < end {
		raw := sc.lines[i]
		if strings.TrimSpace(raw) == "" {
			break
		}
		if indentOf(raw) <= indent {
			break
		}
		parts = append(parts, strings.TrimSpace(raw))
		i++
	}
	return strings.TrimSpace(strings.Join(parts, " ")), i
}

// paragraph collects consecutive plain lines at one indent level.
func (sc *scanner) paragraph(start, end, indent int) (string, int) {
	var parts []string
	i := start
	for i < end {
		raw := sc.lines[i]
		text := strings.TrimSpace(raw)
		if text == "" || indentOf(raw) != indent {
			break
		}
		if commentRE.MatchString(text) || directiveRE.MatchString(text) {
			break
		}
		if m := fieldRE.FindStringSubmatch(text); m != nil && m[1] != "plsql" {
			break
		}
		if i+1 < end && underlineRE.MatchString(strings.TrimSpace(sc.lines[i+1])) &&
			len(strings.TrimSpace(sc.lines[i+1])) >= len(text) {
			break
		}
		parts = append(parts, text)
		i++
	}
	return strings.Join(parts, " "), i
}

func headingLevel(underline string) int {
	switch underline[0] {
	case '=':
		return 1
	case '-':
		return 2
	case '~':
		return 3
	case '^':
		return 4
	default:
		return 5
	}
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

func splitLines(src []byte) []string {
	lines := strings.Split(string(src), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
