// Package security holds input sanitising helpers.
package security

import "strings"

const maxFilenameLen = 128

// SanitizeFilename turns an arbitrary identifier, such as a simulation or
// species name, into a single path element. Runs of characters other than
// ASCII letters, digits, dot, underscore or dash become one underscore, and
// leading or trailing dots and underscores are trimmed, so the result can
// never be "..", contain a separator or be empty.
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
