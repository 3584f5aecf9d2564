// Package match implements the name-matching stages of a license search:
// normalization, token containment, and token-set fuzzy scoring.
// Everything here is pure; callers own I/O and logging.
package match

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and removes every whitespace rune.
// Comparisons built on it are case- and whitespace-insensitive.
// The empty string maps to itself.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
