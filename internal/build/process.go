// # internal/build/process.go
package build

import (
	"fmt"
	"strings"

	"plsqldoc/internal/directive"
	"plsqldoc/internal/docfields"
	"plsqldoc/internal/index"
	"plsqldoc/internal/markup"
	"plsqldoc/internal/observability"
	"plsqldoc/internal/plsql"
	"plsqldoc/internal/signature"
	"plsqldoc/internal/store"
)

// docStats collects what one document contributed to a build pass.
type docStats struct {
	duplicates int
	sigErrors  int
	warnings   []string
	symbols    []store.Symbol
}

// processDoc converts a scanned document into renderable markup and
// registers its declarations in the index. The caller has already
// cleared the document's previous index entries.
func (b *Builder) processDoc(src *directive.Document) (*markup.Document, *docStats) {
	st := &docStats{}
	for _, p := range src.Problems {
		st.warnings = append(st.warnings, fmt.Sprintf("%s:%d: %s", src.Path, p.Line, p.Msg))
	}

	doc := &markup.Document{Name: src.Name, Path: src.Path, Title: src.Title}
	sc := plsql.NewScope()
	doc.Blocks = b.convertBlocks(src, src.Blocks, sc, st)
	return doc, st
}

func (b *Builder) convertBlocks(src *directive.Document, blocks []directive.Block, sc *plsql.Scope, st *docStats) []markup.Node {
	var out []markup.Node
	for _, blk := range blocks {
		switch t := blk.(type) {
		case directive.Heading:
			out = append(out, markup.Heading{Level: t.Level, Text: t.Text})
		case directive.Prose:
			out = append(out, markup.Paragraph{Children: t.Children})
		case *directive.Decl:
			out = append(out, b.convertDecl(src, t, sc, st))
		}
	}
	return out
}

// convertDecl parses the declaration signature, qualifies it against
// the package scope and registers the object. A malformed signature
// fails only this declaration; its raw text stays on the page so the
// author can spot it.
func (b *Builder) convertDecl(src *directive.Document, d *directive.Decl, sc *plsql.Scope, st *docStats) *markup.Declaration {
	decl := &markup.Declaration{
		Kind:    d.Kind,
		NoIndex: d.NoIndex,
		Module:  d.Module,
		Line:    d.Line,
	}

	sig, err := signature.Parse(d.Raw)
	if err != nil {
		st.sigErrors++
		observability.SignatureErrors.Inc()
		st.warnings = append(st.warnings, fmt.Sprintf("%s:%d: %v", src.Path, d.Line, err))
		decl.Sig = markup.SignatureInfo{
			Annotation: d.Kind.Prefix(),
			Name:       strings.TrimSpace(d.Raw),
		}
		b.convertDeclBody(src, d, decl, sc, st)
		return decl
	}

	fullname := sc.Qualify(sig)
	decl.Sig = markup.SignatureInfo{
		Annotation: d.Kind.Prefix(),
		Name:       sig.Name,
		Params:     sig.Parameters,
		Return:     sig.Return,
		FullName:   fullname,
	}
	// Inside a package the enclosing name replaces any written prefix;
	// only a top-level qualifier is displayed.
	if !sc.InPackage() {
		decl.Sig.Prefix = sig.Prefix
	}

	if !d.NoIndex {
		decl.Sig.Anchor = fullname
		prev, replaced := b.ix.Insert(index.Symbol{Name: fullname, Kind: d.Kind, Doc: src.Name})
		if replaced {
			st.duplicates++
			observability.DuplicateObjects.Inc()
			st.warnings = append(st.warnings, fmt.Sprintf(
				"%s:%d: duplicate object description of %s, other instance in %s",
				src.Path, d.Line, fullname, b.pathOf(prev.Doc, src.Name, src.Path)))
		}
		st.symbols = append(st.symbols, store.Symbol{Name: fullname, Kind: string(d.Kind), Doc: src.Name})
	}

	entered := false
	if d.Kind == plsql.KindPackage {
		if err := sc.EnterPackage(fullname); err != nil {
			st.warnings = append(st.warnings, fmt.Sprintf("%s:%d: %v", src.Path, d.Line, err))
		} else {
			entered = true
		}
	}
	b.convertDeclBody(src, d, decl, sc, st)
	if entered {
		sc.ExitPackage()
	}
	return decl
}

// convertDeclBody fills body prose, documentation fields and nested
// members. Members qualify against whatever scope is current, so the
// caller enters the package scope first.
func (b *Builder) convertDeclBody(src *directive.Document, d *directive.Decl, decl *markup.Declaration, sc *plsql.Scope, st *docStats) {
	decl.Body = b.convertBlocks(src, d.Body, sc, st)

	fl, err := docfields.Render(d.Fields)
	if err != nil {
		st.warnings = append(st.warnings, fmt.Sprintf("%s:%d: %v", src.Path, d.Line, err))
	} else {
		decl.Fields = fl
	}

	if len(d.Members) > 0 {
		decl.Members = make([]*markup.Declaration, 0, len(d.Members))
		for _, m := range d.Members {
			decl.Members = append(decl.Members, b.convertDecl(src, m, sc, st))
		}
	}
}
