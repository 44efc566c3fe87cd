package generators

import (
	"go/token"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// exported converts a snake_case definition name to an exported Go name.
func exported(name string) string {
	parts := strings.Split(name, "_")
	// Casers keep state between calls.
	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(title.String(p))
	}
	if sb.Len() == 0 {
		return "X"
	}
	return sb.String()
}

// param converts a field name to a parameter name that is neither a
// keyword nor one of the reserved receiver names.
func param(name string, reserved ...string) string {
	e := exported(name)
	out := strings.ToLower(e[:1]) + e[1:]
	if token.IsKeyword(out) {
		return out + "_"
	}
	for _, r := range reserved {
		if out == r {
			return out + "_"
		}
	}
	return out
}
