package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"plsqldoc/internal/build"
	"plsqldoc/internal/config"
	"plsqldoc/internal/plsql"
	"plsqldoc/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDocs(t *testing.T, srcDir string) {
	d1 := `Packages
========

.. plsql:package:: pkg1

   The main package.

   .. plsql:procedure:: myproc(a in number, b out varchar2) return boolean

      :param a: the input
      :type a: in number
      :param b: the output buffer
      :type b: out varchar2
      :returns: true on success

      Does the work.
`
	err := os.WriteFile(filepath.Join(srcDir, "packages.rst"), []byte(d1), 0644)
	require.NoError(t, err)

	d2 := `Guide
=====

Call :plsql:meth:` + "`pkg1.myproc`" + ` to start, but never :plsql:obj:` + "`pkg1.missing`" + `.
`
	err = os.WriteFile(filepath.Join(srcDir, "guide.rst"), []byte(d2), 0644)
	require.NoError(t, err)
}

func testConfig(t *testing.T) *config.Config {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Build.SourceDir = filepath.Join(root, "docs")
	cfg.Build.OutputDir = filepath.Join(root, "site")
	cfg.Build.Formats = []string{"html", "markdown"}
	cfg.Store.Path = filepath.Join(root, "plsqldoc.db")
	require.NoError(t, os.MkdirAll(cfg.Build.SourceDir, 0755))
	return cfg
}

func TestFullBuildIntegration(t *testing.T) {
	cfg := testConfig(t)
	createTestDocs(t, cfg.Build.SourceDir)

	b, err := build.New(cfg, nil, false)
	require.NoError(t, err)

	res, err := b.Run(context.Background())
	require.NoError(t, err)

	// Verify index state: the package and its qualified member.
	assert.Equal(t, 2, res.Objects)
	pkg, ok := b.Index().Lookup("pkg1")
	require.True(t, ok, "Should have indexed pkg1")
	assert.Equal(t, plsql.KindPackage, pkg.Kind)
	assert.Equal(t, "packages", pkg.Doc)

	proc, ok := b.Index().Lookup("pkg1.myproc")
	require.True(t, ok, "Should have indexed pkg1.myproc")
	assert.Equal(t, plsql.KindProcedure, proc.Kind)
	assert.Equal(t, "packages", proc.Doc)

	// One reference resolves into D1; pkg1.missing and the two builtin
	// type names stay plain text.
	assert.Equal(t, 1, res.Resolved)
	assert.Equal(t, 3, res.Unresolved)
	assert.Empty(t, res.Warnings)

	guide, err := os.ReadFile(filepath.Join(cfg.Build.OutputDir, "guide.html"))
	require.NoError(t, err)
	assert.Contains(t, string(guide), `href="packages.html#pkg1.myproc"`)
	assert.Contains(t, string(guide), "pkg1.missing")
	assert.NotContains(t, string(guide), `href="#pkg1.missing"`)

	// The parameter annotations split into mode text plus type reference;
	// varchar2 is undocumented, so the type name renders as plain text.
	pkgPage, err := os.ReadFile(filepath.Join(cfg.Build.OutputDir, "packages.html"))
	require.NoError(t, err)
	assert.Contains(t, string(pkgPage), `id="pkg1.myproc"`)
	assert.Contains(t, string(pkgPage), "in number")
	assert.Contains(t, string(pkgPage), "Returns")

	// Both configured formats were written, plus the search table.
	_, err = os.Stat(filepath.Join(cfg.Build.OutputDir, "packages.md"))
	assert.NoError(t, err)
	search, err := os.ReadFile(filepath.Join(cfg.Build.OutputDir, "search.json"))
	require.NoError(t, err)
	assert.Contains(t, string(search), `"pkg1.myproc"`)
}

func TestWarmStartIntegration(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Enabled = true
	createTestDocs(t, cfg.Build.SourceDir)

	st, err := store.Open(cfg.Store.Path)
	require.NoError(t, err)

	b, err := build.New(cfg, st, false)
	require.NoError(t, err)
	res, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Parsed)
	require.NoError(t, st.Close())

	// A second session over the same store reuses the unchanged parses
	// but still resolves references against the seeded symbols.
	st2, err := store.Open(cfg.Store.Path)
	require.NoError(t, err)
	defer st2.Close()

	b2, err := build.New(cfg, st2, false)
	require.NoError(t, err)
	res2, err := b2.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res2.Parsed)
	assert.Equal(t, 2, res2.Skipped)
	assert.Equal(t, 2, res2.Objects)

	_, ok := b2.Index().Lookup("pkg1.myproc")
	assert.True(t, ok, "Stored symbols should seed the index")
}

func TestClearUnresolvesReferences(t *testing.T) {
	cfg := testConfig(t)
	createTestDocs(t, cfg.Build.SourceDir)

	b, err := build.New(cfg, nil, false)
	require.NoError(t, err)
	_, err = b.Run(context.Background())
	require.NoError(t, err)

	// Deleting the defining document makes the reference unresolved on
	// the next pass; the guide page falls back to plain text.
	pkgPath := filepath.Join(cfg.Build.SourceDir, "packages.rst")
	require.NoError(t, os.Remove(pkgPath))

	res, err := b.BuildDocs(context.Background(), []string{pkgPath})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Objects)
	assert.Equal(t, 2, res.Unresolved)

	guide, err := os.ReadFile(filepath.Join(cfg.Build.OutputDir, "guide.html"))
	require.NoError(t, err)
	assert.Contains(t, string(guide), "pkg1.myproc")
	assert.NotContains(t, string(guide), "packages.html#pkg1.myproc")
}
