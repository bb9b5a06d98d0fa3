package completion

import (
	"sort"
	"strings"

	"github.com/dhamidi/marksense/markup"
)

// ExactMatchScore is above every fuzzy score, so exact matches come first.
const ExactMatchScore = 200

// Thresholds are the minimum fuzzy scores for an item to be kept.
type Thresholds struct {
	Tag          int
	TagQualified int
	Attribute    int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Tag: 80, TagQualified: 30, Attribute: 70}
}

// FilterFunc scores item against the typed filter and reports whether it
// is kept.
type FilterFunc func(item *Item, filter string) (int, bool)

type Ranker struct {
	thresholds Thresholds
}

func NewRanker(t Thresholds) *Ranker {
	return &Ranker{thresholds: t}
}

// FilterFor returns the predicate for kind. It captures the thresholds so
// a cached predicate keeps working after the ranker is replaced.
func (r *Ranker) FilterFor(kind markup.Kind) FilterFunc {
	t := r.thresholds
	switch kind {
	case markup.KindTag:
		return func(item *Item, filter string) (int, bool) {
			return tagScore(t, item, filter)
		}
	case markup.KindAttribute:
		return func(item *Item, filter string) (int, bool) {
			return attributeScore(t, item, filter)
		}
	case markup.KindAttributeValue:
		return valueScore
	}
	return func(*Item, string) (int, bool) { return 0, false }
}

// Rank filters candidates and orders the survivors by descending score.
// Equal scores keep candidate order. candidates is not modified; the
// returned items carry their score and the filter they were ranked by.
func Rank(candidates []Item, filter string, fn FilterFunc) []Item {
	out := make([]Item, 0, len(candidates))
	for i := range candidates {
		score, ok := fn(&candidates[i], filter)
		if !ok {
			continue
		}
		item := candidates[i]
		item.Score = score
		item.FilterText = filter
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// tagFilterText strips the "<" or "</" the user typed.
func tagFilterText(filter string) string {
	if f, ok := strings.CutPrefix(filter, "</"); ok {
		return f
	}
	return strings.TrimPrefix(filter, "<")
}

func tagScore(t Thresholds, item *Item, filter string) (int, bool) {
	f := tagFilterText(filter)
	if f == "" {
		return 0, true
	}
	qualified := item.Label
	if item.Detail != "" {
		qualified = item.Detail + "." + item.Label
	}
	if f == item.Label || f == qualified {
		return ExactMatchScore, true
	}

	target := item.Label
	if strings.Contains(f, ".") {
		target = item.Detail
	}
	if score := PartialRatio(f, target); score >= t.Tag {
		return score, true
	}
	if score := PartialRatio(f, qualified); score >= t.TagQualified {
		return score, true
	}
	return 0, false
}

func attributeScore(t Thresholds, item *Item, filter string) (int, bool) {
	ns, rest, hasNS := markup.SplitQualified(filter)
	if hasNS && item.Namespace != ns {
		return 0, false
	}
	if rest == "" {
		return 0, true
	}

	local := item.Label
	if _, name, ok := markup.SplitQualified(local); ok {
		local = name
	}
	if local == rest {
		return ExactMatchScore, true
	}

	score := PartialRatio(rest, local)
	if strings.HasPrefix(strings.ToLower(local), strings.ToLower(rest)) {
		return score, true
	}
	if score >= t.Attribute {
		return score, true
	}
	return 0, false
}

func valueScore(item *Item, filter string) (int, bool) {
	switch {
	case filter == "":
		return 0, true
	case item.Label == filter:
		return ExactMatchScore, true
	case strings.HasPrefix(item.Label, filter):
		return 100, true
	}
	return 0, false
}
