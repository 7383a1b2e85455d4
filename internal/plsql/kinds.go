// # internal/plsql/kinds.go
package plsql

import "sort"

// Kind classifies a documented PL/SQL declaration.
type Kind string

const (
	KindPackage   Kind = "package"
	KindProcedure Kind = "procedure"
	KindFunction  Kind = "function"
	KindLibrary   Kind = "library"
	KindType      Kind = "type"
	KindTable     Kind = "table"
	KindTrigger   Kind = "trigger"
)

// RoleObj is the catch-all reference role: it matches objects of any kind
// and is the role used for type annotations in documentation fields.
const RoleObj = "obj"

// kindInfo drives prefix and role dispatch; one table instead of a type
// per kind.
type kindInfo struct {
	role string
}

var kindTable = map[Kind]kindInfo{
	KindPackage:   {role: "pkg"},
	KindProcedure: {role: "meth"},
	KindFunction:  {role: "meth"},
	KindLibrary:   {role: "lib"},
	KindType:      {role: "type"},
	KindTable:     {role: "tbl"},
	KindTrigger:   {role: "trg"},
}

// ParseKind maps a directive name to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := kindTable[k]
	return k, ok
}

func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// Prefix is the display annotation put before the declared name,
// the kind name followed by a space.
func (k Kind) Prefix() string {
	return string(k) + " "
}

// Role is the primary cross-reference role for this kind. Procedures and
// functions share "meth".
func (k Kind) Role() string {
	if info, ok := kindTable[k]; ok {
		return info.role
	}
	return ""
}

// Kinds lists all declaration kinds in stable order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindTable))
	for k := range kindTable {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValidRole reports whether s names a reference role, including the
// catch-all RoleObj. Roles never narrow lookup; they only classify the
// reference at the source level.
func ValidRole(s string) bool {
	if s == RoleObj {
		return true
	}
	for _, info := range kindTable {
		if info.role == s {
			return true
		}
	}
	return false
}
