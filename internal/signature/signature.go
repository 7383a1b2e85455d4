// # internal/signature/signature.go
package signature

import (
	"fmt"
	"regexp"
	"strings"
)

// sigRE captures the declaration grammar: an optional dotted qualifier,
// the declared name (vendor identifiers may start with $), an optional
// parenthesized argument list and an optional return annotation. The
// return keyword is matched case-insensitively and, deliberately,
// without a trailing word boundary: "f returning x" parses as name "f"
// with return annotation "ing x". Existing documents rely on this
// lenient form; do not tighten it.
var sigRE = regexp.MustCompile(`(?i)^([\w.]*\.)?(\$?\w+)\s*(?:\((.*)\))?(?:\s*return\s*(.*))?$`)

// Signature is the structured parse of one declaration string.
// Immutable after Parse.
type Signature struct {
	Prefix     string   // dotted qualifier including the trailing dot; "" when absent
	Name       string   // declared name, never empty
	Parameters []string // trimmed argument tokens in source order; nil when none
	Return     string   // return annotation; "" when absent
}

// SyntaxError reports a declaration string that does not match the
// signature grammar. Fatal to that declaration, not to the build.
type SyntaxError struct {
	Raw string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed declaration signature %q", e.Raw)
}

// Parse turns a raw declaration string into a Signature. Surrounding
// whitespace is ignored. Argument tokens are kept as flat strings;
// splitting a token into mode/type/name is a documentation-field
// concern, not a grammar concern.
func Parse(raw string) (Signature, error) {
	m := sigRE.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Signature{}, &SyntaxError{Raw: raw}
	}
	sig := Signature{
		Prefix: m[1],
		Name:   m[2],
		Return: strings.TrimSpace(m[4]),
	}
	if params := splitParams(m[3]); len(params) > 0 {
		sig.Parameters = params
	}
	return sig, nil
}

// String reserializes to the normalized declaration form. Parsing the
// result yields an equal Signature; an empty argument list is dropped.
func (s Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Prefix)
	b.WriteString(s.Name)
	if len(s.Parameters) > 0 {
		b.WriteString("(")
		b.WriteString(strings.Join(s.Parameters, ", "))
		b.WriteString(")")
	}
	if s.Return != "" {
		b.WriteString(" return ")
		b.WriteString(s.Return)
	}
	return b.String()
}

// splitParams splits an argument list on top-level commas, so sized
// types like number(10,2) stay one token. Empty tokens from stray or
// trailing commas are dropped.
func splitParams(arglist string) []string {
	if strings.TrimSpace(arglist) == "" {
		return nil
	}
	var params []string
	depth := 0
	start := 0
	flush := func(end int) {
		if tok := strings.TrimSpace(arglist[start:end]); tok != "" {
			params = append(params, tok)
		}
	}
	for i, r := range arglist {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(arglist))
	return params
}
