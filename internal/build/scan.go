// # internal/build/scan.go
package build

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"plsqldoc/internal/util"
)

const sourceExt = ".rst"

// SourceFile is one discovered source document.
type SourceFile struct {
	Path string // filesystem path
	Name string // document id, relative to the source root without extension
}

// compileExcludes builds matchers from the configured glob patterns.
func compileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(util.NormalizePath(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// matchesAny checks a root-relative path against the exclude globs.
// Both the relative path and the base name are tried, so "*.tmp" and
// "drafts/*" behave as expected.
func matchesAny(globs []glob.Glob, rel string) bool {
	base := path.Base(rel)
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// ScanSources walks the source tree and lists the documents to build,
// honoring the exclude patterns. Walk order is lexical, so results are
// stable across runs.
func ScanSources(root string, excludes []glob.Glob) ([]SourceFile, error) {
	var files []SourceFile
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if rel != "." && matchesAny(excludes, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, sourceExt) {
			return nil
		}
		if matchesAny(excludes, rel) {
			return nil
		}
		files = append(files, SourceFile{Path: p, Name: util.DocName(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}
