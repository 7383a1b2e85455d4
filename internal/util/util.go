package util

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// NormalizePath rewrites a source-relative path into the forward-slash
// form used for document names and exclude patterns. "." and a leading
// "./" collapse away.
func NormalizePath(s string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	clean := path.Clean(trimmed)
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// DocName derives a document name from a path relative to the source
// root: forward slashes, extension stripped. "api/packages.rst"
// becomes "api/packages".
func DocName(relPath string) string {
	name := NormalizePath(relPath)
	return strings.TrimSuffix(name, path.Ext(name))
}

// SortedStringKeys returns the map's keys in sorted order, for stable
// page and symbol iteration.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileDirs writes data to p, creating missing parent directories
// with 0755. Rendered pages for nested documents land in
// subdirectories that do not exist on a cold build.
func WriteFileDirs(p string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(p)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(p, data, perm)
}
