package sentiment

import (
	"sort"

	"shiny_stats/internal/domain"
)

// TopWords counts non-stopword unigrams across the given review texts and
// returns the limit most frequent, ties broken alphabetically.
func TopWords(texts []string, limit int) []domain.WordCount {
	counts := map[string]int{}
	for _, t := range texts {
		for _, w := range Tokenize(t) {
			if IsStopword(w) {
				continue
			}
			counts[w]++
		}
	}

	out := make([]domain.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, domain.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
