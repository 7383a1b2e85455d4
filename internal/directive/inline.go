// # internal/directive/inline.go
package directive

import (
	"log/slog"
	"regexp"

	"plsqldoc/internal/markup"
	"plsqldoc/internal/plsql"
)

var (
	roleRE        = regexp.MustCompile(":plsql:(\\w+):`([^`]+)`")
	literalRE     = regexp.MustCompile("``([^`]+)``")
	titleTargetRE = regexp.MustCompile(`^(.*?)\s*<([^<>]+)>$`)
)

// parseInline turns a line of prose into inline nodes: plain text,
// ``literals`` and :plsql:role:`target` references, optionally with an
// explicit title written as :plsql:role:`Title <target>`.
func parseInline(text string) []markup.Node {
	var nodes []markup.Node
	rest := text

	for rest != "" {
		lit := literalRE.FindStringSubmatchIndex(rest)
		role := roleRE.FindStringSubmatchIndex(rest)

		if lit == nil && role == nil {
			break
		}
		if lit != nil && (role == nil || lit[0] < role[0]) {
			if lit[0] > 0 {
				nodes = append(nodes, markup.Text{Value: rest[:lit[0]]})
			}
			nodes = append(nodes, markup.Literal{Value: rest[lit[2]:lit[3]]})
			rest = rest[lit[1]:]
			continue
		}

		if role[0] > 0 {
			nodes = append(nodes, markup.Text{Value: rest[:role[0]]})
		}
		name := rest[role[2]:role[3]]
		content := rest[role[4]:role[5]]
		if !plsql.ValidRole(name) {
			slog.Debug("unknown reference role", "role", name)
			nodes = append(nodes, markup.Text{Value: rest[role[0]:role[1]]})
		} else {
			nodes = append(nodes, refFrom(name, content))
		}
		rest = rest[role[1]:]
	}

	if rest != "" {
		nodes = append(nodes, markup.Text{Value: rest})
	}
	return nodes
}

func refFrom(role, content string) markup.Ref {
	if m := titleTargetRE.FindStringSubmatch(content); m != nil {
		return markup.Ref{Role: role, Target: m[2], Title: m[1], Explicit: true}
	}
	return markup.Ref{Role: role, Target: content, Title: content}
}
