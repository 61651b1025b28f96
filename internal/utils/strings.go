// Package utils holds small helpers shared by the HTTP handlers and config.
package utils

import "strings"

// ParseCSV splits a comma-separated list such as CORS_ALLOWED_ORIGINS.
// Values are trimmed, empty ones dropped and duplicates removed, keeping first-seen order.
// Blank input yields nil.
func ParseCSV(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' })

	var out []string
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
