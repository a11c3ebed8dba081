package rank

import (
	"math"
	"sort"
	"time"

	"shiny_stats/internal/domain"
)

const (
	minRating = 1.0
	maxRating = 5.0

	windowDays = 365 // trailing window for recent sentiment
	boostDays  = 30  // sub-window that earns the recency multiplier

	fullConfidenceReviews = 10 // review counts at or above this take no penalty
	zeroReviewPenalty     = 0.1
)

// Params configures the ranking engine. The zero SentimentWeight/RecencyFactor
// combination with weight 0.5 reproduces the original simple leaderboard.
type Params struct {
	// SentimentWeight in [0,1] balances recent sentiment against the
	// historical star rating.
	SentimentWeight float64
	// RecencyFactor >= 0 is the extra multiplier for reviews inside the
	// 30-day sub-window; 0 disables recency weighting.
	RecencyFactor float64
	// Now anchors the trailing windows. Zero means time.Now().
	Now time.Time
}

// DefaultParams is the 50/50 weighting without recency boost.
func DefaultParams() Params { return Params{SentimentWeight: 0.5} }

func (p Params) now() time.Time {
	if p.Now.IsZero() {
		return time.Now()
	}
	return p.Now
}

// Rank computes the composite score for every business in the table and
// returns entries sorted by score descending. Ties keep the business-table
// order, so rank assignment is reproducible. Businesses without any summary
// row still rank: their recent sentiment is fixed at neutral and the volume
// penalty comes from their historical review count.
func Rank(businesses []domain.Business, summaries []domain.BusinessSummary, scored []domain.ScoredReview, p Params) []domain.RankingEntry {
	now := p.now()
	cutoff := now.AddDate(0, 0, -windowDays)
	boostCutoff := now.AddDate(0, 0, -boostDays)

	type recent struct {
		sum   float64
		count int
	}
	recents := map[string]*recent{}
	for _, r := range scored {
		if r.Created == nil || !r.Created.After(cutoff) {
			continue
		}
		rc := recents[r.BusinessID]
		if rc == nil {
			rc = &recent{}
			recents[r.BusinessID] = rc
		}
		score := r.Predicted.Score()
		if r.Created.After(boostCutoff) {
			score *= 1 + p.RecencyFactor
		}
		rc.sum += score
		rc.count++
	}

	byID := map[string]domain.BusinessSummary{}
	for _, s := range summaries {
		byID[s.BusinessID] = s
	}

	entries := make([]domain.RankingEntry, 0, len(businesses))
	for _, b := range businesses {
		recentNorm := 0.5
		if rc := recents[b.ID]; rc != nil && rc.count > 0 {
			recentNorm = rc.sum / float64(rc.count) / (1 + p.RecencyFactor)
		}

		ratingNorm := (b.Rating - minRating) / (maxRating - minRating)
		composite := ratingNorm*(1-p.SentimentWeight) + recentNorm*p.SentimentWeight

		penalty := 1.0
		switch {
		case b.ReviewCount == 0:
			penalty = zeroReviewPenalty
		case b.ReviewCount < fullConfidenceReviews:
			penalty = float64(b.ReviewCount) / fullConfidenceReviews
		}

		dom := domain.Neutral
		if s, ok := byID[b.ID]; ok {
			dom = s.Dominant
		}

		entries = append(entries, domain.RankingEntry{
			BusinessID:  b.ID,
			Name:        b.Name,
			Rating:      b.Rating,
			ReviewCount: b.ReviewCount,
			Dominant:    dom,
			RecentScore: recentNorm,
			Score:       round1(composite * penalty * 100),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
