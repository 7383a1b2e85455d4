// # internal/search/search.go
package search

import (
	"encoding/json"
	"sort"

	"plsqldoc/internal/index"
	"plsqldoc/internal/util"
)

// Entry is one row of the generated search table.
type Entry struct {
	Name     string `json:"name"`
	DispName string `json:"dispname"`
	Kind     string `json:"kind"`
	Doc      string `json:"doc"`
	Anchor   string `json:"anchor"`
	Priority int    `json:"priority"`
}

// Entries flattens the index into search rows sorted by name. Display
// name and anchor both repeat the qualified name.
func Entries(ix *index.Index) []Entry {
	syms := ix.Enumerate()
	out := make([]Entry, 0, len(syms))
	for _, sym := range syms {
		out = append(out, Entry{
			Name:     sym.Name,
			DispName: sym.Name,
			Kind:     string(sym.Kind),
			Doc:      sym.Doc,
			Anchor:   sym.Name,
			Priority: 1,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Write renders the rows as indented JSON at path.
func Write(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFileDirs(path, data, 0o644)
}
