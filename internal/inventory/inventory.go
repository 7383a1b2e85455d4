// # internal/inventory/inventory.go
package inventory

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"plsqldoc/internal/index"
	"plsqldoc/internal/util"
)

// File is the object inventory of one project: every indexed object
// with enough location data for another project to link to it.
type File struct {
	Project string   `yaml:"project"`
	Version string   `yaml:"version"`
	BaseURL string   `yaml:"base_url"`
	Objects []Object `yaml:"objects"`
}

type Object struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Doc  string `yaml:"doc"`
}

// Collect snapshots the index into an inventory sorted by object name.
func Collect(ix *index.Index, project, version, baseURL string) *File {
	syms := ix.Enumerate()
	objects := make([]Object, 0, len(syms))
	for _, sym := range syms {
		objects = append(objects, Object{
			Name: sym.Name,
			Kind: string(sym.Kind),
			Doc:  sym.Doc,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })

	return &File{
		Project: project,
		Version: version,
		BaseURL: baseURL,
		Objects: objects,
	}
}

// Write renders the inventory as YAML at path.
func (f *File) Write(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	return util.WriteFileDirs(path, data, 0o644)
}

// Set is a group of imported inventories used to resolve references to
// objects documented elsewhere.
type Set struct {
	objects map[string]string // name -> absolute URL
}

// LoadSet reads the inventory files in order. On a name collision the
// earlier import wins.
func LoadSet(paths []string) (*Set, error) {
	set := &Set{objects: make(map[string]string)}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read inventory %s: %w", p, err)
		}
		var f File
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse inventory %s: %w", p, err)
		}
		for _, obj := range f.Objects {
			if _, ok := set.objects[obj.Name]; ok {
				continue
			}
			set.objects[obj.Name] = objectURL(f.BaseURL, obj)
		}
	}
	return set, nil
}

// Lookup returns the URL of an imported object.
func (s *Set) Lookup(name string) (string, bool) {
	url, ok := s.objects[name]
	return url, ok
}

func (s *Set) Len() int {
	return len(s.objects)
}

func objectURL(baseURL string, obj Object) string {
	url := obj.Doc + ".html#" + obj.Name
	if baseURL == "" {
		return url
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + url
}
