package match

import (
	"regexp"
	"strings"
)

// Named is satisfied by any record carrying a precomputed normalized name.
type Named interface {
	NormalizedName() string
}

// wordRe matches runs of Unicode letters, digits and underscores.
// Go's \w is ASCII-only, which would drop Hangul entirely.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases query and returns its word tokens.
// Punctuation and separators are discarded. An empty query yields no tokens.
func Tokenize(query string) []string {
	return wordRe.FindAllString(strings.ToLower(query), -1)
}

// FilterTokens keeps the records whose normalized name contains every token.
// Token order does not matter. With no tokens every record passes, so
// callers skip this stage when the raw name query is empty.
func FilterTokens[T Named](records []T, tokens []string) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if containsAll(rec.NormalizedName(), tokens) {
			out = append(out, rec)
		}
	}
	return out
}

func containsAll(name string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(name, tok) {
			return false
		}
	}
	return true
}
