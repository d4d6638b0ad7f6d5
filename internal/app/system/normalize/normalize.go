// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"
	"unicode"
)

// Email trims and lowercases.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses inner whitespace; case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Contact keeps only digits, dropping a leading +91 or 0 trunk prefix so
// "+91 98765-43210" and "098765 43210" both become "9876543210".
func Contact(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	d := b.String()
	switch {
	case len(d) == 12 && strings.HasPrefix(d, "91"):
		return d[2:]
	case len(d) == 11 && strings.HasPrefix(d, "0"):
		return d[1:]
	}
	return d
}

// QueryParam trims a query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// CSV splits a comma-separated list, trimming items and dropping empties.
func CSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
