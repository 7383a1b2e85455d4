// # internal/markup/document.go
package markup

import "plsqldoc/internal/plsql"

// Document is one fully processed page, ready for rendering.
type Document struct {
	Name   string // document id, project-relative without extension
	Path   string // source file path
	Title  string
	Blocks []Node
}

// Declaration is a rendered object description: the signature line plus
// its documentation body, fields and nested members.
type Declaration struct {
	Kind    plsql.Kind
	Sig     SignatureInfo
	NoIndex bool
	Module  string // grouping label, carried but not interpreted
	Body    []Node
	Fields  *FieldList
	Members []*Declaration
	Line    int // source line of the directive
}

func (*Declaration) node() {}

// SignatureInfo is the display form of a parsed declaration signature.
type SignatureInfo struct {
	Annotation string   // kind prefix, e.g. "procedure "
	Prefix     string   // displayed qualifier incl. trailing dot; empty inside a package
	Name       string   // bare declared name
	Params     []string // parameter tokens in source order; nil when none
	Return     string   // return annotation; empty when none
	FullName   string   // canonical fully qualified name
	Anchor     string   // link target id; empty when NoIndex
}
