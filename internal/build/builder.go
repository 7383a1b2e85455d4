// # internal/build/builder.go
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"plsqldoc/internal/config"
	"plsqldoc/internal/directive"
	"plsqldoc/internal/index"
	"plsqldoc/internal/inventory"
	"plsqldoc/internal/markup"
	"plsqldoc/internal/observability"
	"plsqldoc/internal/ords"
	"plsqldoc/internal/plsql"
	"plsqldoc/internal/render"
	"plsqldoc/internal/search"
	"plsqldoc/internal/store"
	"plsqldoc/internal/util"
	"plsqldoc/internal/xref"
)

// Result summarizes one build pass.
type Result struct {
	Session         string
	Parsed          int // documents parsed this pass
	Skipped         int // unchanged documents left alone
	Objects         int // indexed objects after the pass
	Duplicates      int
	SignatureErrors int
	Resolved        int // references resolved within the project
	External        int // references resolved via imported inventories
	Unresolved      int // references left as plain text
	Outputs         int // files written
	Warnings        []string
	Duration        time.Duration
}

// page is one parsed source document held across build passes. doc is
// the pristine parse; resolution works on clones so a later pass can
// re-resolve against an updated index.
type page struct {
	path        string
	fingerprint string
	doc         *markup.Document
	generated   bool // synthesized page, not backed by a source file
}

// Builder drives the two build phases over persistent in-memory state.
// Phase one parses changed sources and maintains the symbol index;
// phase two resolves references and renders every page. A Builder runs
// one pass at a time; the caller serializes passes.
type Builder struct {
	cfg      *config.Config
	ix       *index.Index
	res      *xref.Resolver
	st       *store.Store
	gens     []render.Generator
	excludes []glob.Glob
	session  string
	rebuild  bool

	mu    sync.Mutex
	pages map[string]*page

	// Previous-session state, loaded once at construction.
	stored        map[string]string         // docname -> fingerprint
	storedSymbols map[string][]store.Symbol // docname -> persisted symbols
	seeded        map[string]bool           // docs standing in via stored symbols
}

// New wires a builder against its configuration. The store is optional;
// rebuild discards any previous-session state so every document is
// parsed fresh.
func New(cfg *config.Config, st *store.Store, rebuild bool) (*Builder, error) {
	excludes, err := compileExcludes(cfg.Build.Exclude)
	if err != nil {
		return nil, err
	}

	gens := make([]render.Generator, 0, len(cfg.Build.Formats))
	for _, format := range cfg.Build.Formats {
		gen, err := render.ForFormat(format, cfg.Project.Name)
		if err != nil {
			return nil, err
		}
		gens = append(gens, gen)
	}

	b := &Builder{
		cfg:           cfg,
		ix:            index.New(),
		st:            st,
		gens:          gens,
		excludes:      excludes,
		session:       uuid.NewString(),
		rebuild:       rebuild,
		pages:         make(map[string]*page),
		stored:        make(map[string]string),
		storedSymbols: make(map[string][]store.Symbol),
		seeded:        make(map[string]bool),
	}

	var fallback xref.Fallback
	if len(cfg.Inventory.Imports) > 0 {
		set, err := inventory.LoadSet(cfg.Inventory.Imports)
		if err != nil {
			return nil, fmt.Errorf("load inventories: %w", err)
		}
		slog.Info("loaded object inventories", "files", len(cfg.Inventory.Imports), "objects", set.Len())
		fallback = set
	}
	b.res = xref.New(b.ix, fallback)

	if st != nil && !rebuild {
		if err := b.loadStoredState(); err != nil {
			slog.Warn("ignoring previous build state", "error", err)
		}
	}
	return b, nil
}

// Index exposes the live symbol table for the serve and UI layers.
func (b *Builder) Index() *index.Index {
	return b.ix
}

// loadStoredState pulls fingerprints and symbols of the previous
// session. Documents whose sources and outputs are untouched can then
// skip the parse entirely; their symbols are seeded straight into the
// index so references into them still resolve.
func (b *Builder) loadStoredState() error {
	fps, err := b.st.LoadFingerprints()
	if err != nil {
		return err
	}
	syms, err := b.st.LoadSymbols()
	if err != nil {
		return err
	}
	b.stored = fps
	for _, s := range syms {
		b.storedSymbols[s.Doc] = append(b.storedSymbols[s.Doc], s)
	}
	if len(fps) > 0 {
		slog.Debug("previous session state loaded", "documents", len(fps), "objects", len(syms))
	}
	return nil
}

// Run executes a full build pass: scan the source tree, parse what
// changed, resolve everything, write outputs.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "build.run")
	defer span.End()

	start := time.Now()
	res := &Result{Session: b.session}

	files, err := ScanSources(b.cfg.Build.SourceDir, b.excludes)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("build.sources", len(files)))

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[f.Name] = true
		if err := b.parseOne(f, res); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", f.Path, err))
		}
	}
	b.dropVanished(seen, res)

	if err := b.finish(ctx, res); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	observability.BuildDuration.Observe(res.Duration.Seconds())
	slog.Info("build finished",
		"parsed", res.Parsed, "skipped", res.Skipped, "objects", res.Objects,
		"unresolved", res.Unresolved, "duration", res.Duration,
		"heap_mb", heapAllocMB())
	return res, nil
}

func heapAllocMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc >> 20
}

// BuildDocs is the incremental pass behind watch mode: reparse exactly
// the given source paths, then resolve and render the whole project so
// cross-references pick up moved or removed objects.
func (b *Builder) BuildDocs(ctx context.Context, paths []string) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "build.incremental",
		trace.WithAttributes(attribute.Int("build.changed", len(paths))))
	defer span.End()

	start := time.Now()
	res := &Result{Session: b.session}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, ok := b.sourceFor(p)
		if !ok {
			continue
		}
		if _, err := os.Stat(f.Path); err != nil {
			if os.IsNotExist(err) {
				b.removeDoc(f.Name)
				continue
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", f.Path, err))
			continue
		}
		if err := b.parseOne(f, res); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", f.Path, err))
		}
	}

	if err := b.finish(ctx, res); err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	observability.BuildDuration.Observe(res.Duration.Seconds())
	return res, nil
}

// sourceFor maps a changed filesystem path back to a scannable source
// file. Paths outside the source root, non-source files and excluded
// paths are ignored.
func (b *Builder) sourceFor(p string) (SourceFile, bool) {
	rel, err := filepath.Rel(b.cfg.Build.SourceDir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return SourceFile{}, false
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, sourceExt) {
		return SourceFile{}, false
	}
	if matchesAny(b.excludes, rel) {
		return SourceFile{}, false
	}
	return SourceFile{Path: p, Name: util.DocName(rel)}, true
}

// parseOne reads and parses one source file unless its content is
// unchanged. On a cold start a matching stored fingerprint plus outputs
// on disk lets the stored symbols stand in for a full parse.
func (b *Builder) parseOne(f SourceFile, res *Result) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}
	fp := util.Fingerprint(data)

	b.mu.Lock()
	existing := b.pages[f.Name]
	b.mu.Unlock()
	if existing != nil && existing.fingerprint == fp {
		res.Skipped++
		observability.DocumentsSkipped.Inc()
		return nil
	}
	if existing == nil && b.canReuseStored(f.Name, fp) {
		if !b.seeded[f.Name] {
			b.seedFromStore(f.Name)
			slog.Debug("document unchanged since previous session", "doc", f.Name)
		}
		res.Skipped++
		observability.DocumentsSkipped.Inc()
		return nil
	}

	parseStart := time.Now()
	src := directive.Parse(f.Name, f.Path, data)
	b.ix.Clear(f.Name)
	doc, st := b.processDoc(src)
	observability.ParseDuration.Observe(time.Since(parseStart).Seconds())
	observability.DocumentsParsed.Inc()

	b.mu.Lock()
	b.pages[f.Name] = &page{path: f.Path, fingerprint: fp, doc: doc}
	b.mu.Unlock()
	delete(b.seeded, f.Name)

	res.Parsed++
	res.Duplicates += st.duplicates
	res.SignatureErrors += st.sigErrors
	res.Warnings = append(res.Warnings, st.warnings...)

	if b.st != nil {
		rec := store.Document{Name: f.Name, Fingerprint: fp, Session: b.session}
		if err := b.st.SaveDocument(rec, st.symbols); err != nil {
			slog.Warn("persisting document state failed", "doc", f.Name, "error", err)
		}
	}
	return nil
}

// canReuseStored reports whether the previous session's state still
// covers this document: same content fingerprint and every output file
// present. Reused documents are not re-rendered, so a stale output is
// disqualifying.
func (b *Builder) canReuseStored(name, fp string) bool {
	if b.st == nil || b.rebuild {
		return false
	}
	if stored, ok := b.stored[name]; !ok || stored != fp {
		return false
	}
	for _, gen := range b.gens {
		if _, err := os.Stat(b.outputPath(name, gen.Ext())); err != nil {
			return false
		}
	}
	return true
}

func (b *Builder) seedFromStore(name string) {
	for _, s := range b.storedSymbols[name] {
		kind := plsql.Kind(s.Kind)
		if !kind.Valid() {
			slog.Warn("skipping stored symbol with unknown kind", "name", s.Name, "kind", s.Kind)
			continue
		}
		b.ix.Insert(index.Symbol{Name: s.Name, Kind: kind, Doc: s.Doc})
	}
	b.seeded[name] = true
}

// pathOf resolves a document id to its source path for warning text.
// The document being processed is not registered yet, so it is passed
// alongside.
func (b *Builder) pathOf(docname, currentDoc, currentPath string) string {
	if docname == currentDoc {
		return currentPath
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if pg, ok := b.pages[docname]; ok {
		return pg.path
	}
	return docname
}

// dropVanished clears state for documents whose source files are gone,
// including rows left over from previous sessions.
func (b *Builder) dropVanished(seen map[string]bool, res *Result) {
	b.mu.Lock()
	var gone []string
	for name, pg := range b.pages {
		if pg.generated || seen[name] {
			continue
		}
		gone = append(gone, name)
	}
	b.mu.Unlock()
	for _, name := range gone {
		b.removeDoc(name)
	}

	var stale []string
	for name := range b.stored {
		if !seen[name] {
			stale = append(stale, name)
		}
	}
	for _, name := range stale {
		b.removeDoc(name)
	}
	if len(stale) > 0 {
		slog.Debug("pruned documents from previous session", "count", len(stale))
	}
}

// removeDoc drops a deleted source document: index entries, cached
// parse, persisted rows and previously written outputs.
func (b *Builder) removeDoc(name string) {
	b.ix.Clear(name)
	b.mu.Lock()
	delete(b.pages, name)
	b.mu.Unlock()
	delete(b.seeded, name)
	delete(b.stored, name)
	delete(b.storedSymbols, name)

	if b.st != nil {
		if err := b.st.DeleteDocuments([]string{name}); err != nil {
			slog.Warn("deleting document state failed", "doc", name, "error", err)
		}
	}
	for _, gen := range b.gens {
		p := b.outputPath(name, gen.Ext())
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Warn("removing stale output failed", "path", p, "error", err)
		}
	}
	slog.Info("document removed", "doc", name)
}

func (b *Builder) outputPath(name, ext string) string {
	return filepath.Join(b.cfg.Build.OutputDir, filepath.FromSlash(name)+ext)
}

// finish is the second build phase: regenerate the REST reference page,
// resolve references on a clone of every pristine parse, render and
// write all formats, then the search table and inventory export.
func (b *Builder) finish(ctx context.Context, res *Result) error {
	_, span := observability.Tracer.Start(ctx, "build.resolve")
	defer span.End()

	if b.cfg.ORDS.Spec != "" {
		if err := b.refreshORDSPage(); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("rest reference page: %v", err))
		}
	}

	b.mu.Lock()
	names := util.SortedStringKeys(b.pages)
	b.mu.Unlock()

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.mu.Lock()
		pg := b.pages[name]
		b.mu.Unlock()
		if pg == nil {
			continue
		}

		view := &markup.Document{
			Name:   pg.doc.Name,
			Path:   pg.doc.Path,
			Title:  pg.doc.Title,
			Blocks: markup.CloneNodes(pg.doc.Blocks),
		}
		blocks, outcome := b.res.Apply(view.Blocks)
		view.Blocks = blocks
		res.Resolved += outcome.Resolved
		res.External += outcome.External
		res.Unresolved += outcome.Unresolved

		for _, gen := range b.gens {
			renderStart := time.Now()
			out, err := gen.Generate(view)
			if err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}
			target := b.outputPath(name, gen.Ext())
			if err := util.WriteFileDirs(target, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			observability.RenderDuration.
				WithLabelValues(strings.TrimPrefix(gen.Ext(), ".")).
				Observe(time.Since(renderStart).Seconds())
			res.Outputs++
		}
	}

	observability.XrefLookups.WithLabelValues("resolved").Add(float64(res.Resolved))
	observability.XrefLookups.WithLabelValues("external").Add(float64(res.External))
	observability.XrefLookups.WithLabelValues("unresolved").Add(float64(res.Unresolved))

	searchPath := filepath.Join(b.cfg.Build.OutputDir, "search.json")
	if err := search.Write(searchPath, search.Entries(b.ix)); err != nil {
		return fmt.Errorf("write search table: %w", err)
	}
	res.Outputs++

	if b.cfg.Inventory.Export != "" {
		inv := inventory.Collect(b.ix, b.cfg.Project.Name, b.cfg.Project.Version, b.cfg.Inventory.BaseURL)
		if err := inv.Write(b.cfg.Inventory.Export); err != nil {
			return fmt.Errorf("write inventory: %w", err)
		}
		res.Outputs++
	}

	res.Objects = b.ix.Len()
	observability.IndexObjects.Set(float64(res.Objects))
	span.SetAttributes(attribute.Int("build.objects", res.Objects))
	return nil
}

// refreshORDSPage regenerates the REST reference page from the OpenAPI
// document. Handler references resolve through the regular pass, so the
// page links straight into the indexed packages.
func (b *Builder) refreshORDSPage() error {
	spec, err := ords.LoadSpec(b.cfg.ORDS.Spec)
	if err != nil {
		return err
	}
	ops, err := ords.Operations(spec)
	if err != nil {
		return err
	}
	doc := ords.Page(b.cfg.ORDS.Doc, b.cfg.ORDS.Title, ops)
	b.mu.Lock()
	b.pages[doc.Name] = &page{path: b.cfg.ORDS.Spec, doc: doc, generated: true}
	b.mu.Unlock()
	return nil
}
