package rank

import (
	"sort"

	"shiny_stats/internal/domain"
)

// Aggregate folds scored reviews into one summary row per business id present
// in the input. Businesses with no matching reviews are absent here; the
// ranking engine still scores them from the business table alone. Rows come
// back sorted by business id so repeated runs produce identical output.
func Aggregate(scored []domain.ScoredReview) []domain.BusinessSummary {
	byID := map[string]*domain.BusinessSummary{}
	for _, r := range scored {
		s := byID[r.BusinessID]
		if s == nil {
			s = &domain.BusinessSummary{BusinessID: r.BusinessID}
			byID[r.BusinessID] = s
		}
		switch r.Predicted {
		case domain.Positive:
			s.Positive++
		case domain.Negative:
			s.Negative++
		default:
			s.Neutral++
		}
		s.NumReviews++
	}

	out := make([]domain.BusinessSummary, 0, len(byID))
	for _, s := range byID {
		s.Dominant = dominant(*s)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessID < out[j].BusinessID })
	return out
}

// dominant picks the category with the highest count. Ties resolve by the
// fixed precedence Positivo > Neutral > Negativo.
func dominant(s domain.BusinessSummary) domain.Sentiment {
	best := domain.Sentiments[0]
	bestCount := count(s, best)
	for _, c := range domain.Sentiments[1:] {
		if n := count(s, c); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func count(s domain.BusinessSummary, c domain.Sentiment) int {
	switch c {
	case domain.Positive:
		return s.Positive
	case domain.Negative:
		return s.Negative
	default:
		return s.Neutral
	}
}
