package domain

import "time"

// Review is one row of the reviews table. BusinessID references the
// businesses table but the relationship is not enforced; orphaned reviews are
// simply left out of aggregation joins.
type Review struct {
	ID         string
	BusinessID string
	UserID     *string
	UserName   *string
	Rating     float64
	Text       string // null text is normalized to "" at the ingestion boundary
	Created    *time.Time
	URL        *string
}

// LabeledReview pairs a review with the sentiment derived from its rating.
// The label is the classifier's training ground truth.
type LabeledReview struct {
	Review
	Label Sentiment
}

// ScoredReview carries the classifier's text-only prediction. Predicted may
// disagree with the rating-derived label; downstream aggregation uses
// Predicted.
type ScoredReview struct {
	Review
	Label     Sentiment
	Predicted Sentiment
}
