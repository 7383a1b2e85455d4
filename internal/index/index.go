// # internal/index/index.go
package index

import (
	"sort"
	"sync"

	"plsqldoc/internal/plsql"
)

// Symbol is one indexed declaration, identified by its fully qualified
// name and tagged with the document that defines it.
type Symbol struct {
	Name string // fully qualified name
	Kind plsql.Kind
	Doc  string // owning document id
}

// Index is the project-wide symbol table. It is built incrementally
// across a build session: a document's entries are cleared and
// reinserted when the document is reparsed, and never reset wholesale.
// The build serializes writers per document; the lock makes reads from
// the serve and UI layers safe.
type Index struct {
	mu sync.RWMutex

	// Core data
	symbols map[string]Symbol // fully qualified name -> symbol

	// Owner tracking, for bulk removal per document
	byDoc map[string]map[string]bool // doc -> set of names
}

func New() *Index {
	return &Index{
		symbols: make(map[string]Symbol),
		byDoc:   make(map[string]map[string]bool),
	}
}

// Insert records a symbol. A name collision never fails: the previous
// symbol is returned with replaced=true so the caller can surface a
// duplicate-definition warning, and the new symbol wins.
func (ix *Index) Insert(sym Symbol) (prev Symbol, replaced bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	prev, replaced = ix.symbols[sym.Name]
	if replaced {
		ix.removeNameLocked(prev)
	}

	ix.symbols[sym.Name] = sym
	if ix.byDoc[sym.Doc] == nil {
		ix.byDoc[sym.Doc] = make(map[string]bool)
	}
	ix.byDoc[sym.Doc][sym.Name] = true
	return prev, replaced
}

// Clear removes every symbol owned by the given document. Called before
// a document is reparsed so stale entries from the previous build do
// not linger.
func (ix *Index) Clear(doc string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for name := range ix.byDoc[doc] {
		delete(ix.symbols, name)
	}
	delete(ix.byDoc, doc)
}

// Lookup finds a symbol by exact fully qualified name. No fuzzy or
// case-insensitive fallback.
func (ix *Index) Lookup(name string) (Symbol, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	sym, ok := ix.symbols[name]
	return sym, ok
}

// Enumerate returns an unordered snapshot of all symbols.
func (ix *Index) Enumerate() []Symbol {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Symbol, 0, len(ix.symbols))
	for _, sym := range ix.symbols {
		out = append(out, sym)
	}
	return out
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.symbols)
}

// Docs lists the documents that currently own at least one symbol,
// sorted for stable iteration.
func (ix *Index) Docs() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	docs := make([]string, 0, len(ix.byDoc))
	for doc := range ix.byDoc {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs
}

func (ix *Index) removeNameLocked(sym Symbol) {
	delete(ix.symbols, sym.Name)
	if owned := ix.byDoc[sym.Doc]; owned != nil {
		delete(owned, sym.Name)
		if len(owned) == 0 {
			delete(ix.byDoc, sym.Doc)
		}
	}
}
