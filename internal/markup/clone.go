// # internal/markup/clone.go
package markup

// CloneNodes deep-copies a node sequence. Resolution rewrites
// declarations in place, so each build pass works on a clone and the
// pristine parse stays reusable.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n Node) Node {
	switch t := n.(type) {
	case Paragraph:
		t.Children = CloneNodes(t.Children)
		return t
	case BulletList:
		items := make([]ListItem, len(t.Items))
		for i, it := range t.Items {
			it.Children = CloneNodes(it.Children)
			items[i] = it
		}
		t.Items = items
		return t
	case ListItem:
		t.Children = CloneNodes(t.Children)
		return t
	case FieldList:
		t.Fields = cloneFields(t.Fields)
		return t
	case Field:
		t.Body = CloneNodes(t.Body)
		return t
	case *Declaration:
		return t.clone()
	default:
		// Remaining nodes are flat value types.
		return n
	}
}

func cloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Body = CloneNodes(f.Body)
		out[i] = f
	}
	return out
}

func (d *Declaration) clone() *Declaration {
	c := *d
	c.Sig.Params = append([]string(nil), d.Sig.Params...)
	c.Body = CloneNodes(d.Body)
	if d.Fields != nil {
		fl := FieldList{Fields: cloneFields(d.Fields.Fields)}
		c.Fields = &fl
	}
	if d.Members != nil {
		members := make([]*Declaration, len(d.Members))
		for i, m := range d.Members {
			members[i] = m.clone()
		}
		c.Members = members
	}
	return &c
}
