// # internal/signature/signature_test.go
package signature

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_BareName(t *testing.T) {
	sig, err := Parse("init")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.Prefix != "" || sig.Name != "init" || sig.Parameters != nil || sig.Return != "" {
		t.Errorf("Unexpected signature: %+v", sig)
	}
}

func TestParse_FullDeclaration(t *testing.T) {
	sig, err := Parse("pkg1.run(p1 in number) return boolean")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.Prefix != "pkg1." {
		t.Errorf("Expected prefix pkg1., got %q", sig.Prefix)
	}
	if sig.Name != "run" {
		t.Errorf("Expected name run, got %q", sig.Name)
	}
	if !reflect.DeepEqual(sig.Parameters, []string{"p1 in number"}) {
		t.Errorf("Unexpected parameters: %v", sig.Parameters)
	}
	if sig.Return != "boolean" {
		t.Errorf("Expected return boolean, got %q", sig.Return)
	}
}

func TestParse_DollarName(t *testing.T) {
	sig, err := Parse("$special_name(a, b, c)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.Name != "$special_name" {
		t.Errorf("Expected name $special_name, got %q", sig.Name)
	}
	if !reflect.DeepEqual(sig.Parameters, []string{"a", "b", "c"}) {
		t.Errorf("Unexpected parameters: %v", sig.Parameters)
	}
}

func TestParse_DottedPrefix(t *testing.T) {
	sig, err := Parse("a.b.init")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.Prefix != "a.b." || sig.Name != "init" {
		t.Errorf("Unexpected signature: %+v", sig)
	}
}

func TestParse_ReturnCaseInsensitive(t *testing.T) {
	for _, raw := range []string{
		"f(a) RETURN boolean",
		"f(a) Return boolean",
		"f(a) return boolean",
	} {
		sig, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", raw, err)
		}
		if sig.Return != "boolean" {
			t.Errorf("Parse(%q): expected return boolean, got %q", raw, sig.Return)
		}
	}
}

// The return keyword carries no trailing word boundary; a word that
// merely starts with "return" splits there. Lenient on purpose, see
// the grammar comment.
func TestParse_ReturnKeywordNoBoundary(t *testing.T) {
	sig, err := Parse("f returning x")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.Name != "f" {
		t.Errorf("Expected name f, got %q", sig.Name)
	}
	if sig.Return != "ing x" {
		t.Errorf("Expected return %q, got %q", "ing x", sig.Return)
	}
}

func TestParse_WhitespaceTolerance(t *testing.T) {
	sig, err := Parse("  myproc  ( a in number ,  b out varchar2 )  return  boolean  ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.Name != "myproc" {
		t.Errorf("Expected name myproc, got %q", sig.Name)
	}
	if !reflect.DeepEqual(sig.Parameters, []string{"a in number", "b out varchar2"}) {
		t.Errorf("Unexpected parameters: %v", sig.Parameters)
	}
	if sig.Return != "boolean" {
		t.Errorf("Expected return boolean, got %q", sig.Return)
	}
}

func TestParse_TrailingCommaDiscarded(t *testing.T) {
	sig, err := Parse("f(a, b, )")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(sig.Parameters, []string{"a", "b"}) {
		t.Errorf("Unexpected parameters: %v", sig.Parameters)
	}
}

func TestParse_EmptyParens(t *testing.T) {
	sig, err := Parse("f()")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sig.Parameters != nil {
		t.Errorf("Expected no parameters, got %v", sig.Parameters)
	}
}

func TestParse_NestedParensStayOneToken(t *testing.T) {
	sig, err := Parse("f(a number(10,2), b)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(sig.Parameters, []string{"a number(10,2)", "b"}) {
		t.Errorf("Unexpected parameters: %v", sig.Parameters)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []string{"", "123 456", "(a)", "pkg.", "a b c"} {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q): expected error", raw)
			continue
		}
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("Parse(%q): expected SyntaxError, got %T", raw, err)
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"init",
		"pkg1.run(p1 in number) return boolean",
		"$special_name(a, b, c)",
		"a.b.init",
		"f( a , b )  RETURN t",
		"f()",
		"myproc(a in number, b out varchar2) return boolean",
	} {
		first, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", raw, err)
		}
		second, err := Parse(first.String())
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", first.String(), err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Round trip of %q changed: %+v vs %+v", raw, first, second)
		}
	}
}
