package prompt

import (
	"regexp"
	"strings"
)

// Context maps placeholder names to replacement text.
type Context map[string]string

var (
	placeholderPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)
	braceBreaker       = strings.NewReplacer("{{", "{ {", "}}", "} }")
)

// Render substitutes every {{key}} in tmpl with ctx[key]. Unknown or
// malformed placeholders resolve to the empty string, so the result never
// contains placeholder syntax. Double braces inside values are split apart
// rather than dropped, so user text between them survives.
func Render(tmpl string, ctx Context) string {
	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := strings.TrimSpace(token[2 : len(token)-2])
		return breakBraces(ctx[key])
	})
	// values that meet at a boundary can still form a placeholder
	for placeholderPattern.MatchString(out) {
		out = placeholderPattern.ReplaceAllString(out, "")
	}
	return out
}

func breakBraces(v string) string {
	for strings.Contains(v, "{{") || strings.Contains(v, "}}") {
		v = braceBreaker.Replace(v)
	}
	return v
}
