package match

import (
	"slices"
	"strings"
)

// DefaultFuzzyThreshold applies when FilterFuzzy is called with a
// non-positive threshold. The search pipeline always passes its own value,
// so in practice this default is unused.
const DefaultFuzzyThreshold = 75.0

// FilterFuzzy keeps the records whose normalized name scores at least
// threshold against the normalized query under TokenSetRatio.
// An empty input yields an empty, non-nil slice.
func FilterFuzzy[T Named](records []T, query string, threshold float64) []T {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	q := Normalize(query)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if TokenSetRatio(q, rec.NormalizedName()) >= threshold {
			out = append(out, rec)
		}
	}
	return out
}

// TokenSetRatio scores the similarity of a and b from 0 to 100.
//
// Both strings are split on whitespace into token sets. If the sets share a
// token and one is a subset of the other the score is 100. Otherwise the
// score is the best Indel similarity among three reconstructions:
// diff(a)↔diff(b), sect↔sect+diff(a) and sect↔sect+diff(b), where sect is the
// sorted intersection and the diffs are the sorted set differences.
// Either side having no tokens scores 0. The function is symmetric.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			sect = append(sect, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			diffBA = append(diffBA, tok)
		}
	}
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}
	slices.Sort(sect)
	slices.Sort(diffAB)
	slices.Sort(diffBA)

	ab := []rune(strings.Join(diffAB, " "))
	ba := []rune(strings.Join(diffBA, " "))
	sectLen := len([]rune(strings.Join(sect, " ")))
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + len(ab)
	sectBALen := sectLen + sep + len(ba)

	result := normSimilarity(indelDistance(ab, ba), sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	// sect vs sect+diff differ only by the appended diff, so the distance is
	// the length of that suffix.
	sectAB := normSimilarity(sep+len(ab), sectLen+sectABLen)
	sectBA := normSimilarity(sep+len(ba), sectLen+sectBALen)
	return max(result, sectAB, sectBA)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func normSimilarity(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 - 100*float64(dist)/float64(lensum)
}

// indelDistance is the insertion/deletion edit distance between a and b:
// len(a) + len(b) - 2*LCS(a, b), computed over runes.
func indelDistance(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return len(a) + len(b)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return len(a) + len(b) - 2*prev[len(b)]
}
