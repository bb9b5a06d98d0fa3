package completion

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Ratio returns the case-insensitive similarity of a and b in [0,100],
// from their edit distance relative to the longer string.
func Ratio(a, b string) int {
	return ratio([]rune(strings.ToLower(a)), []rune(strings.ToLower(b)))
}

// PartialRatio slides the shorter string over the longer one and returns
// the best Ratio of any window.
func PartialRatio(a, b string) int {
	s, l := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	if len(s) > len(l) {
		s, l = l, s
	}
	if len(s) == 0 {
		if len(l) == 0 {
			return 100
		}
		return 0
	}

	best := 0
	for i := 0; i+len(s) <= len(l); i++ {
		r := ratio(s, l[i:i+len(s)])
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func ratio(a, b []rune) int {
	n := max(len(a), len(b))
	if n == 0 {
		return 100
	}
	d := fuzzy.LevenshteinDistance(string(a), string(b))
	return (100*(n-d) + n/2) / n
}
