package sentiment

import "shiny_stats/internal/domain"

// LabelForRating derives the training ground truth from a star rating:
// >= 4.0 Positivo, <= 2.0 Negativo, everything in between Neutral. Rows whose
// rating cannot be parsed never reach this function; the dataset loader
// rejects them.
func LabelForRating(r float64) domain.Sentiment {
	switch {
	case r >= 4.0:
		return domain.Positive
	case r <= 2.0:
		return domain.Negative
	default:
		return domain.Neutral
	}
}
