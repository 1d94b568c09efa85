package category

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggestion proposes a category for an uncategorized description,
// backed by the categorized description it resembles.
type Suggestion struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	MatchedWith string `json:"matched_with"`
	Score       int    `json:"score"`
}

// defaultThreshold is the minimum similarity score a suggestion needs.
const defaultThreshold = 70

// suggest compares each uncategorized description against every
// exemplar and keeps the best match at or above the threshold.
func suggest(descriptions []string, exemplars []Exemplar, threshold int) []Suggestion {
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	var suggestions []Suggestion
	for _, desc := range descriptions {
		upper := strings.ToUpper(desc)

		best := Suggestion{Score: threshold - 1}
		for _, ex := range exemplars {
			score := similarity(upper, strings.ToUpper(ex.Description))
			if score > best.Score {
				best = Suggestion{
					Description: desc,
					Category:    ex.Category,
					MatchedWith: ex.Description,
					Score:       score,
				}
			}
		}
		if best.Description != "" {
			suggestions = append(suggestions, best)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return suggestions
}

// similarity scores two normalized descriptions 0-100. Containment is
// the common case for merchant variations ("STARBUCKS 001" vs
// "STARBUCKS 002" share the "STARBUCKS" stem), with edit distance as
// the fallback.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	if strings.Contains(a, b) && len(a) > 0 {
		return 75 + (25 * len(b) / len(a))
	}
	if strings.Contains(b, a) && len(b) > 0 {
		return 75 + (25 * len(a) / len(b))
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	score := 100 * (maxLen - distance) / maxLen
	if score < 0 {
		score = 0
	}

	// Subsequence matches early in the string count for something
	// even when the edit distance is large.
	if rank := fuzzy.RankMatchFold(b, a); rank >= 0 && len(a) > 0 {
		if sub := 60 - (rank * 40 / len(a)); sub > score {
			score = sub
		}
	}
	return score
}
