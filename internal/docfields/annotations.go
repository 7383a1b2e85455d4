// # internal/docfields/annotations.go
package docfields

import (
	"errors"
	"fmt"
	"strings"

	"plsqldoc/internal/markup"
)

// ErrAnnotationTaken reports a second Take of the same annotation, a
// renderer usage error: an annotation value may appear in the output
// structure exactly once.
var ErrAnnotationTaken = errors.New("annotation already taken")

// Annotation is a type annotation attached to one argument. Plain
// annotations are split into mode qualifiers and type name at render
// time; rich ones are inserted verbatim.
type Annotation struct {
	Plain   string
	Nodes   []markup.Node
	IsPlain bool
}

func PlainAnnotation(text string) Annotation {
	return Annotation{Plain: strings.TrimSpace(text), IsPlain: true}
}

func RichAnnotation(nodes []markup.Node) Annotation {
	return Annotation{Nodes: nodes}
}

// AnnotationStore holds the type annotations of one declaration's
// documented arguments. Values are transferred out with Take so the
// same annotation cannot be attached to two places.
type AnnotationStore struct {
	values map[string]Annotation
	taken  map[string]bool
}

func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{
		values: make(map[string]Annotation),
		taken:  make(map[string]bool),
	}
}

// Put stores the annotation for an argument. A later Put for the same
// argument overwrites an untaken value.
func (s *AnnotationStore) Put(arg string, ann Annotation) {
	s.values[arg] = ann
}

// Has reports whether an untaken annotation exists for the argument.
func (s *AnnotationStore) Has(arg string) bool {
	_, ok := s.values[arg]
	return ok
}

// Take transfers the annotation for arg out of the store. The second
// Take for the same argument fails with ErrAnnotationTaken; an argument
// that never had an annotation returns ok=false with no error.
func (s *AnnotationStore) Take(arg string) (Annotation, bool, error) {
	if s.taken[arg] {
		return Annotation{}, false, fmt.Errorf("annotation for %q: %w", arg, ErrAnnotationTaken)
	}
	ann, ok := s.values[arg]
	if !ok {
		return Annotation{}, false, nil
	}
	delete(s.values, arg)
	s.taken[arg] = true
	return ann, true, nil
}

// annotationFrom classifies field content: pure text becomes a plain
// annotation eligible for mode/type splitting, anything structured is
// kept rich.
func annotationFrom(body []markup.Node) Annotation {
	plain := ""
	for _, n := range body {
		t, ok := n.(markup.Text)
		if !ok {
			return RichAnnotation(body)
		}
		plain += t.Value
	}
	return PlainAnnotation(plain)
}
