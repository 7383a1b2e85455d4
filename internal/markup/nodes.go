// # internal/markup/nodes.go
package markup

// Node is any piece of renderable document content. Inline nodes carry
// text runs inside a paragraph; block nodes structure a page.
type Node interface {
	node()
}

// Text is a plain text run.
type Text struct {
	Value string
}

// Strong is emphasized text (argument names, labels).
type Strong struct {
	Value string
}

// Literal is inline monospace text.
type Literal struct {
	Value string
}

// Ref is a cross-reference as written in the source, before resolution.
type Ref struct {
	Role     string // pkg, meth, lib, type, tbl, trg, obj
	Target   string
	Title    string // display text; equals Target unless Explicit
	Explicit bool   // title was spelled out in the source
}

// Link is a resolved cross-reference. Internal links carry Doc+Anchor,
// links into an imported inventory carry URL instead.
type Link struct {
	Title  string
	Doc    string
	Anchor string
	URL    string
}

// Paragraph is a block of inline nodes.
type Paragraph struct {
	Children []Node
}

// Heading is a section title. Level 1 is the page title.
type Heading struct {
	Level int
	Text  string
}

// BulletList is an unordered list of items.
type BulletList struct {
	Items []ListItem
}

// ListItem holds the inline content of one list entry.
type ListItem struct {
	Children []Node
}

// FieldList groups the rendered documentation fields of a declaration.
type FieldList struct {
	Fields []Field
}

// Field is one labeled documentation field. Body holds block nodes
// (a Paragraph, or a BulletList for grouped items).
type Field struct {
	Label string
	Body  []Node
}

func (Text) node()       {}
func (Strong) node()     {}
func (Literal) node()    {}
func (Ref) node()        {}
func (Link) node()       {}
func (Paragraph) node()  {}
func (Heading) node()    {}
func (BulletList) node() {}
func (ListItem) node()   {}
func (FieldList) node()  {}
func (Field) node()      {}

// PlainText flattens a node sequence to its visible text, ignoring
// structure. Used for logging and for title fallbacks.
func PlainText(nodes []Node) string {
	out := ""
	for _, n := range nodes {
		switch t := n.(type) {
		case Text:
			out += t.Value
		case Strong:
			out += t.Value
		case Literal:
			out += t.Value
		case Ref:
			out += t.Title
		case Link:
			out += t.Title
		case Paragraph:
			out += PlainText(t.Children)
		case Heading:
			out += t.Text
		case BulletList:
			for _, it := range t.Items {
				out += PlainText(it.Children)
			}
		case ListItem:
			out += PlainText(t.Children)
		case FieldList:
			for _, f := range t.Fields {
				out += PlainText(f.Body)
			}
		case Field:
			out += PlainText(t.Body)
		}
	}
	return out
}
