package discord

import (
	"strings"
	"unicode"
)

// Normalize prepares raw message content for the engine: lower-case, drop
// punctuation, collapse whitespace runs. The engine's contract assumes its
// input has been through this.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
