// Package substitution implements the three placeholder-replacement layers:
// scalar `{{name}}` substitution, function token substitution
// (guid/string/timestamp), and request-variable substitution
// (`{{name.source.target.path}}`).
package substitution

import "strings"

// Scalars replaces every `{{name}}` token in text with vars[name]. Unknown
// names are preserved literally, matching is exact and case-sensitive, and
// replacement values are not re-scanned (no recursive substitution). A `{{`
// with no matching `}}` before the end of the string is left as-is.
func Scalars(text string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(text))

	rest := text
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + 2

		b.WriteString(rest[:start])
		name := rest[start+2 : end]
		if val, ok := vars[name]; ok {
			b.WriteString(val)
		} else {
			b.WriteString("{{")
			b.WriteString(name)
			b.WriteString("}}")
		}
		rest = rest[end+2:]
	}
	return b.String()
}
