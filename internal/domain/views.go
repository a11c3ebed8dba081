package domain

import "time"

// BusinessSummary is one per-business sentiment aggregation row. Counts always
// sum to NumReviews; Dominant is the argmax with Positivo > Neutral > Negativo
// precedence on ties.
type BusinessSummary struct {
	BusinessID string
	NumReviews int
	Positive   int
	Negative   int
	Neutral    int
	Dominant   Sentiment
}

// RankingEntry is a leaderboard row: business attributes joined with its
// sentiment summary and the composite score in [0, 100].
type RankingEntry struct {
	Rank        int       `json:"rank"`
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Dominant    Sentiment `json:"dominant_sentiment"`
	RecentScore float64   `json:"recent_sentiment_norm"`
	Score       float64   `json:"ranking_score"`
}

// MapRow is what the map layer plots: one dot per business with coordinates.
type MapRow struct {
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Dominant    Sentiment `json:"dominant_sentiment"`
	Color       [4]uint8  `json:"color"`
}

// ReviewRow is the detailed-review table consumed by the word cloud and the
// drill-down views.
type ReviewRow struct {
	BusinessID string     `json:"business_id"`
	Text       string     `json:"text"`
	Sentiment  Sentiment  `json:"sentiment"`
	Created    *time.Time `json:"time_created,omitempty"`
	Rating     float64    `json:"rating"`
}

// WordCount is one word-frequency entry for the word-cloud front end.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FilterConfig is the sidebar state, passed explicitly on every request so the
// pipeline stays a pure function of (dataset, filter).
type FilterConfig struct {
	Sentiments []Sentiment
	MinRating  float64
}

// DefaultFilter keeps every category and the full rating range.
func DefaultFilter() FilterConfig {
	return FilterConfig{Sentiments: []Sentiment{Positive, Neutral, Negative}, MinRating: 1.0}
}

// Allows reports whether the filter keeps a business with the given dominant
// sentiment and historical rating.
func (f FilterConfig) Allows(dominant Sentiment, rating float64) bool {
	if rating < f.MinRating {
		return false
	}
	for _, s := range f.Sentiments {
		if s == dominant {
			return true
		}
	}
	return false
}

// Snapshot is the full dashboard state handed to the presentation layer.
// Degraded is set when the classifier fell back to rating-derived labels.
type Snapshot struct {
	Businesses  []MapRow       `json:"businesses"`
	Leaderboard []RankingEntry `json:"leaderboard"`
	Reviews     []ReviewRow    `json:"reviews"`
	Degraded    bool           `json:"degraded,omitempty"`
}
