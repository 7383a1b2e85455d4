// # internal/markup/clone_test.go
package markup

import (
	"testing"

	"plsqldoc/internal/plsql"
)

func TestCloneNodesIsolatesDeclarations(t *testing.T) {
	decl := &Declaration{
		Kind: plsql.KindProcedure,
		Sig: SignatureInfo{
			Annotation: "procedure ",
			Name:       "log_error",
			Params:     []string{"msg"},
			FullName:   "logger.log_error",
			Anchor:     "logger.log_error",
		},
		Body: []Node{Paragraph{Children: []Node{
			Ref{Role: "pkg", Target: "logger", Title: "logger"},
		}}},
		Fields: &FieldList{Fields: []Field{
			{Label: "Parameters", Body: []Node{Paragraph{Children: []Node{Text{Value: "msg"}}}}},
		}},
		Members: []*Declaration{
			{Kind: plsql.KindFunction, Sig: SignatureInfo{Name: "inner"}},
		},
	}
	original := []Node{
		Heading{Level: 1, Text: "Logging"},
		decl,
	}

	cloned := CloneNodes(original)

	cd, ok := cloned[1].(*Declaration)
	if !ok {
		t.Fatalf("expected *Declaration, got %T", cloned[1])
	}
	if cd == decl {
		t.Fatal("expected a fresh declaration, got the original pointer")
	}

	// Mutating the clone the way resolution does must not leak back.
	cd.Body[0] = Paragraph{Children: []Node{Text{Value: "logger"}}}
	cd.Sig.Params[0] = "changed"
	cd.Fields.Fields[0].Label = "changed"
	cd.Members[0].Sig.Name = "changed"

	if _, ok := decl.Body[0].(Paragraph).Children[0].(Ref); !ok {
		t.Errorf("expected original body ref to survive, got %T", decl.Body[0].(Paragraph).Children[0])
	}
	if decl.Sig.Params[0] != "msg" {
		t.Errorf("expected original param %q, got %q", "msg", decl.Sig.Params[0])
	}
	if decl.Fields.Fields[0].Label != "Parameters" {
		t.Errorf("expected original field label %q, got %q", "Parameters", decl.Fields.Fields[0].Label)
	}
	if decl.Members[0].Sig.Name != "inner" {
		t.Errorf("expected original member name %q, got %q", "inner", decl.Members[0].Sig.Name)
	}
}

func TestCloneNodesNil(t *testing.T) {
	if got := CloneNodes(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestPlainText(t *testing.T) {
	nodes := []Node{
		Paragraph{Children: []Node{
			Text{Value: "see "},
			Ref{Role: "meth", Target: "pkg.proc", Title: "pkg.proc"},
			Text{Value: " and "},
			Literal{Value: "x"},
		}},
	}
	if got := PlainText(nodes); got != "see pkg.proc and x" {
		t.Errorf("expected %q, got %q", "see pkg.proc and x", got)
	}
}
