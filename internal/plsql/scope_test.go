// # internal/plsql/scope_test.go
package plsql

import (
	"errors"
	"testing"

	"plsqldoc/internal/signature"
)

func TestScope_QualifyInsidePackage(t *testing.T) {
	s := NewScope()
	if err := s.EnterPackage("pkg1"); err != nil {
		t.Fatalf("EnterPackage failed: %v", err)
	}

	sig, err := signature.Parse("init")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := s.Qualify(sig); got != "pkg1.init" {
		t.Errorf("Expected pkg1.init, got %q", got)
	}

	// An explicit prefix in the raw string is overridden by the package.
	sig, err = signature.Parse("other.init")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := s.Qualify(sig); got != "pkg1.init" {
		t.Errorf("Expected pkg1.init, got %q", got)
	}
}

func TestScope_QualifyOutsidePackage(t *testing.T) {
	s := NewScope()

	sig, err := signature.Parse("a.b.init")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := s.Qualify(sig); got != "a.b.init" {
		t.Errorf("Expected a.b.init, got %q", got)
	}

	sig, err = signature.Parse("standalone")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := s.Qualify(sig); got != "standalone" {
		t.Errorf("Expected standalone, got %q", got)
	}
}

func TestScope_NestedPackageRejected(t *testing.T) {
	s := NewScope()
	if err := s.EnterPackage("outer"); err != nil {
		t.Fatalf("EnterPackage failed: %v", err)
	}
	err := s.EnterPackage("inner")
	if err == nil {
		t.Fatal("Expected error entering nested package")
	}
	if !errors.Is(err, ErrNestedPackage) {
		t.Errorf("Expected ErrNestedPackage, got %v", err)
	}
	// The original scope must be intact.
	if s.Package() != "outer" {
		t.Errorf("Expected package outer, got %q", s.Package())
	}
}

func TestScope_ExitAndReenter(t *testing.T) {
	s := NewScope()
	if err := s.EnterPackage("pkg1"); err != nil {
		t.Fatalf("EnterPackage failed: %v", err)
	}
	s.ExitPackage()
	if s.InPackage() {
		t.Error("Expected scope to be outside a package after ExitPackage")
	}
	if err := s.EnterPackage("pkg2"); err != nil {
		t.Fatalf("EnterPackage after exit failed: %v", err)
	}
	if s.Package() != "pkg2" {
		t.Errorf("Expected package pkg2, got %q", s.Package())
	}
}

func TestKind_PrefixAndRole(t *testing.T) {
	cases := []struct {
		kind   Kind
		prefix string
		role   string
	}{
		{KindPackage, "package ", "pkg"},
		{KindProcedure, "procedure ", "meth"},
		{KindFunction, "function ", "meth"},
		{KindLibrary, "library ", "lib"},
		{KindType, "type ", "type"},
		{KindTable, "table ", "tbl"},
		{KindTrigger, "trigger ", "trg"},
	}
	for _, c := range cases {
		if got := c.kind.Prefix(); got != c.prefix {
			t.Errorf("%s: expected prefix %q, got %q", c.kind, c.prefix, got)
		}
		if got := c.kind.Role(); got != c.role {
			t.Errorf("%s: expected role %q, got %q", c.kind, c.role, got)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind("procedure"); !ok || k != KindProcedure {
		t.Errorf("ParseKind(procedure) = %v, %v", k, ok)
	}
	if _, ok := ParseKind("view"); ok {
		t.Error("ParseKind(view) should fail")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{"pkg", "meth", "lib", "type", "tbl", "trg", "obj"} {
		if !ValidRole(role) {
			t.Errorf("Expected %q to be a valid role", role)
		}
	}
	if ValidRole("func") {
		t.Error("func should not be a valid role")
	}
}
