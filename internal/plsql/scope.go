// # internal/plsql/scope.go
package plsql

import (
	"errors"
	"fmt"

	"plsqldoc/internal/signature"
)

// ErrNestedPackage is returned when a package declaration appears inside
// another package body. Only one nesting level is supported.
var ErrNestedPackage = errors.New("already inside a package")

// Scope tracks the package context while one document is processed.
// A Scope belongs to exactly one document pass and is discarded
// afterwards; it must never be shared across documents.
type Scope struct {
	inPackage bool
	pkg       string
}

func NewScope() *Scope {
	return &Scope{}
}

// EnterPackage records the enclosing package for subsequent member
// declarations. Entering a second package before ExitPackage fails.
func (s *Scope) EnterPackage(name string) error {
	if s.inPackage {
		return fmt.Errorf("enter package %q inside package %q: %w", name, s.pkg, ErrNestedPackage)
	}
	s.inPackage = true
	s.pkg = name
	return nil
}

// ExitPackage leaves the current package body.
func (s *Scope) ExitPackage() {
	s.inPackage = false
	s.pkg = ""
}

func (s *Scope) InPackage() bool {
	return s.inPackage
}

// Package returns the enclosing package name, or "" when outside one.
func (s *Scope) Package() string {
	if !s.inPackage {
		return ""
	}
	return s.pkg
}

// Qualify returns the effective fully qualified name for a parsed
// declaration. Inside a package the package name wins over any prefix
// embedded in the signature; outside, the embedded prefix is kept.
func (s *Scope) Qualify(sig signature.Signature) string {
	if s.inPackage {
		return s.pkg + "." + sig.Name
	}
	return sig.Prefix + sig.Name
}
