// # internal/docfields/fields.go
package docfields

import (
	"strings"

	"plsqldoc/internal/markup"
	"plsqldoc/internal/plsql"
)

// FieldSpec describes one documentation field accepted on a
// declaration. One table drives all fields; there is no per-field type.
type FieldSpec struct {
	Key         string   // canonical identifier
	Label       string   // display label
	Names       []string // source field names for the content entries
	TypeNames   []string // source field names carrying type annotations
	TypeRole    string   // reference role for type names in annotations
	HasArg      bool     // entries name an argument
	IsTyped     bool     // entries are grouped and may carry annotations
	CanCollapse bool     // single grouped item renders inline
}

// Specs is the field table: grouped parameter documentation with type
// annotations, plus the plain return fields.
var Specs = []FieldSpec{
	{
		Key:       "parameter",
		Label:     "Parameters",
		Names:     []string{"param", "parameter", "arg", "argument"},
		TypeNames: []string{"paramtype", "type"},
		TypeRole:  plsql.RoleObj,
		HasArg:    true,
		IsTyped:   true,
	},
	{Key: "returnvalue", Label: "Returns", Names: []string{"returns", "return"}},
	{Key: "returntype", Label: "Return type", Names: []string{"rtype", "returntype"}},
}

// Classify maps a source field name to its spec. isType reports that
// the name is one of the spec's annotation fields.
func Classify(name string) (spec FieldSpec, isType bool, ok bool) {
	for _, s := range Specs {
		for _, n := range s.Names {
			if n == name {
				return s, false, true
			}
		}
		for _, n := range s.TypeNames {
			if n == name {
				return s, true, true
			}
		}
	}
	return FieldSpec{}, false, false
}

// Entry is one raw field-list entry of a declaration, in source order.
type Entry struct {
	Name string // field name as written: param, type, returns, rtype, ...
	Arg  string // argument name; empty for no-arg fields
	Body []markup.Node
	Line int
}

// Item is one documented argument of a grouped field.
type Item struct {
	Arg  string
	Desc []markup.Node
}

type group struct {
	spec  FieldSpec
	items []Item
	anns  *AnnotationStore
}

// Render structures a declaration's raw field entries into displayed
// fields, in first-occurrence order. Unknown field names pass through
// as plain labeled fields.
func Render(entries []Entry) (*markup.FieldList, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	type slot struct {
		group *group        // grouped typed field, or
		field *markup.Field // ready plain field
	}
	var slots []slot
	groups := make(map[string]*group)

	for _, entry := range entries {
		spec, isType, known := Classify(entry.Name)
		if !known {
			f := plainField(unknownLabel(entry), entry.Body)
			slots = append(slots, slot{field: &f})
			continue
		}

		if !spec.IsTyped {
			f := plainField(spec.Label, entry.Body)
			slots = append(slots, slot{field: &f})
			continue
		}

		g, ok := groups[spec.Key]
		if !ok {
			g = &group{spec: spec, anns: NewAnnotationStore()}
			groups[spec.Key] = g
			slots = append(slots, slot{group: g})
		}

		if isType {
			g.anns.Put(entry.Arg, annotationFrom(entry.Body))
			continue
		}

		arg := entry.Arg
		// ":param number foo:" shorthand attaches a one-token
		// annotation inline with the argument name.
		if ann, rest, split := splitInlineArg(arg); split {
			g.anns.Put(rest, PlainAnnotation(ann))
			arg = rest
		}
		g.items = append(g.items, Item{Arg: arg, Desc: entry.Body})
	}

	fl := &markup.FieldList{}
	for _, s := range slots {
		if s.field != nil {
			fl.Fields = append(fl.Fields, *s.field)
			continue
		}
		if len(s.group.items) == 0 {
			continue
		}
		f, err := renderGrouped(s.group.spec, s.group.items, s.group.anns)
		if err != nil {
			return nil, err
		}
		fl.Fields = append(fl.Fields, f)
	}
	if len(fl.Fields) == 0 {
		return nil, nil
	}
	return fl, nil
}

// renderGrouped builds one grouped field: a single collapsible item
// renders inline, otherwise each item becomes a list entry.
func renderGrouped(spec FieldSpec, items []Item, anns *AnnotationStore) (markup.Field, error) {
	if len(items) == 1 && spec.CanCollapse {
		nodes, err := renderItem(spec, items[0], anns)
		if err != nil {
			return markup.Field{}, err
		}
		return markup.Field{Label: spec.Label, Body: []markup.Node{markup.Paragraph{Children: nodes}}}, nil
	}

	list := markup.BulletList{}
	for _, item := range items {
		nodes, err := renderItem(spec, item, anns)
		if err != nil {
			return markup.Field{}, err
		}
		list.Items = append(list.Items, markup.ListItem{Children: nodes})
	}
	return markup.Field{Label: spec.Label, Body: []markup.Node{list}}, nil
}

// renderItem builds one documented argument: the strong argument name,
// the parenthesized annotation when one is stored, then the separator
// and description.
func renderItem(spec FieldSpec, item Item, anns *AnnotationStore) ([]markup.Node, error) {
	nodes := []markup.Node{markup.Strong{Value: item.Arg}}
	if anns.Has(item.Arg) {
		ann, _, err := anns.Take(item.Arg)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, markup.Text{Value: " ("})
		nodes = append(nodes, annotationNodes(spec, ann)...)
		nodes = append(nodes, markup.Text{Value: ")"})
	}
	nodes = append(nodes, markup.Text{Value: " -- "})
	nodes = append(nodes, item.Desc...)
	return nodes, nil
}

// annotationNodes renders a type annotation. A plain annotation with
// several space-separated tokens keeps its passing-mode qualifiers as
// text; only the last token is a referenceable type name. Rich content
// is inserted verbatim without re-splitting.
func annotationNodes(spec FieldSpec, ann Annotation) []markup.Node {
	if !ann.IsPlain {
		return ann.Nodes
	}
	components := strings.Split(ann.Plain, " ")
	if len(components) == 1 {
		return []markup.Node{markup.Ref{Role: spec.TypeRole, Target: ann.Plain, Title: ann.Plain}}
	}
	mode := strings.Join(components[:len(components)-1], " ") + " "
	last := components[len(components)-1]
	return []markup.Node{
		markup.Text{Value: mode},
		markup.Ref{Role: spec.TypeRole, Target: last, Title: last},
	}
}

func plainField(label string, body []markup.Node) markup.Field {
	return markup.Field{Label: label, Body: []markup.Node{markup.Paragraph{Children: body}}}
}

func unknownLabel(entry Entry) string {
	if entry.Arg != "" {
		return entry.Name + " " + entry.Arg
	}
	return entry.Name
}

// splitInlineArg splits ":param number foo:" into annotation and
// argument name at the first gap. Single-token arguments do not split.
func splitInlineArg(arg string) (ann, rest string, split bool) {
	i := strings.IndexAny(arg, " \t")
	if i < 0 {
		return "", arg, false
	}
	ann = arg[:i]
	rest = strings.TrimSpace(arg[i+1:])
	if rest == "" {
		return "", arg, false
	}
	return ann, rest, true
}
