package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"shiny_stats/internal/adapters/observability"
	"shiny_stats/internal/dataset"
	"shiny_stats/internal/domain"
	"shiny_stats/internal/rank"
	"shiny_stats/internal/sentiment"
)

// Pipeline is the analytical core: a pure function of (dataset, filter,
// ranking params) -> dashboard snapshot. No session state survives between
// calls; the only memory is the content-addressed model cache, so repeated
// requests over an unchanged dataset skip retraining.
type Pipeline struct {
	dir      string
	cache    domain.Cache
	conf     sentiment.Config
	cacheTTL time.Duration
}

func NewPipeline(dir string, cache domain.Cache, conf sentiment.Config, ttl time.Duration) *Pipeline {
	return &Pipeline{dir: dir, cache: cache, conf: conf, cacheTTL: ttl}
}

// Snapshot runs the full pass: load, label, train-or-load, predict, aggregate,
// rank, filter. A missing input file aborts with dataset.ErrMissingInput; a
// classifier failure degrades to rating-derived labels instead of failing.
func (p *Pipeline) Snapshot(ctx context.Context, f domain.FilterConfig, params rank.Params) (domain.Snapshot, error) {
	ds, err := dataset.Load(p.dir)
	if err != nil {
		return domain.Snapshot{}, err
	}

	key := p.snapshotKey(ds.ReviewsHash, f, params)
	var cached domain.Snapshot
	if ok, _ := p.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	scored, degraded := p.classify(ctx, ds)
	summaries := rank.Aggregate(scored)

	// Reporting side effect; the artifact is never read back in this run.
	if err := dataset.WriteSummary(filepath.Join(p.dir, dataset.SummaryFile), summaries); err != nil {
		log.Warn().Err(err).Msg("summary artifact write failed")
	}

	entries := rank.ApplyFilter(rank.Rank(ds.Businesses, summaries, scored, params), f)
	ids := rank.BusinessIDs(entries)

	snap := domain.Snapshot{
		Businesses:  mapRows(ds.Businesses, summaries, ids),
		Leaderboard: entries,
		Reviews:     rank.FilterReviews(reviewRows(scored), ids),
		Degraded:    degraded,
	}
	_ = p.cache.Set(ctx, key, snap, int(p.cacheTTL.Seconds()))
	return snap, nil
}

// Words returns the stopword-filtered word frequencies over the snapshot's
// review table, optionally restricted to one predicted sentiment.
func (p *Pipeline) Words(ctx context.Context, f domain.FilterConfig, params rank.Params, only *domain.Sentiment, limit int) ([]domain.WordCount, error) {
	snap, err := p.Snapshot(ctx, f, params)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(snap.Reviews))
	for _, r := range snap.Reviews {
		if only != nil && r.Sentiment != *only {
			continue
		}
		texts = append(texts, r.Text)
	}
	return sentiment.TopWords(texts, limit), nil
}

// classify labels every review from its rating, trains (or loads) the text
// classifier and predicts each review's sentiment from text alone. On any
// training failure the rating-derived labels stand in for predictions.
func (p *Pipeline) classify(ctx context.Context, ds *dataset.Dataset) ([]domain.ScoredReview, bool) {
	labeled := make([]domain.LabeledReview, len(ds.Reviews))
	for i, r := range ds.Reviews {
		labeled[i] = domain.LabeledReview{Review: r, Label: sentiment.LabelForRating(r.Rating)}
	}

	model, err := p.trainOrLoad(ctx, ds.ReviewsHash, labeled)
	scored := make([]domain.ScoredReview, len(labeled))
	if err != nil {
		log.Warn().Err(err).Msg("classifier training failed, falling back to rating-derived labels")
		observability.ClassifierFallbacks.Inc()
		for i, lr := range labeled {
			scored[i] = domain.ScoredReview{Review: lr.Review, Label: lr.Label, Predicted: lr.Label}
		}
		return scored, true
	}

	for i, lr := range labeled {
		scored[i] = domain.ScoredReview{Review: lr.Review, Label: lr.Label, Predicted: model.Predict(lr.Text)}
	}
	observability.ReviewsClassified.Add(float64(len(scored)))
	return scored, false
}

func (p *Pipeline) trainOrLoad(ctx context.Context, reviewsHash string, labeled []domain.LabeledReview) (*sentiment.Model, error) {
	key := modelKey(reviewsHash, p.conf)
	var m sentiment.Model
	if ok, _ := p.cache.Get(ctx, key, &m); ok {
		log.Debug().Str("key", key).Msg("model cache hit, skipping training")
		return &m, nil
	}

	start := time.Now()
	trained, err := sentiment.Train(labeled, p.conf)
	if err != nil {
		return nil, err
	}
	observability.TrainingSeconds.Observe(time.Since(start).Seconds())
	log.Info().
		Int("reviews", len(labeled)).
		Int("vocab", len(trained.Vec.Vocab)).
		Dur("took", time.Since(start)).
		Msg("classifier trained")

	_ = p.cache.Set(ctx, key, trained, int(p.cacheTTL.Seconds()))
	return trained, nil
}

// modelKey is the content-addressed cache key: exact review input plus every
// hyperparameter. A changed dataset or config always misses; process restarts
// alone never invalidate.
func modelKey(reviewsHash string, conf sentiment.Config) string {
	sum := sha256.Sum256([]byte(reviewsHash + "|" + conf.Key()))
	return "model:" + hex.EncodeToString(sum[:])
}

// snapshotKey is content-addressed like the model key: a changed dataset or a
// different filter/params combination can never serve a stale snapshot.
func (p *Pipeline) snapshotKey(reviewsHash string, f domain.FilterConfig, params rank.Params) string {
	cats := make([]string, len(f.Sentiments))
	for i, s := range f.Sentiments {
		cats[i] = string(s)
	}
	sort.Strings(cats)
	return fmt.Sprintf("snapshot:%s:%s:min=%g:w=%g:rf=%g",
		reviewsHash, strings.Join(cats, ","), f.MinRating, params.SentimentWeight, params.RecencyFactor)
}

// mapRows joins the filtered businesses with their coordinates. Rows without
// coordinates or without any matched reviews stay off the map, matching the
// summary-to-coordinates merge the dashboard has always done.
func mapRows(businesses []domain.Business, summaries []domain.BusinessSummary, ids map[string]bool) []domain.MapRow {
	byID := map[string]domain.BusinessSummary{}
	for _, s := range summaries {
		byID[s.BusinessID] = s
	}

	out := make([]domain.MapRow, 0, len(businesses))
	for _, b := range businesses {
		s, ok := byID[b.ID]
		if !ok || !ids[b.ID] || !b.HasCoords() {
			continue
		}
		out = append(out, domain.MapRow{
			BusinessID:  b.ID,
			Name:        b.Name,
			Lat:         *b.Lat,
			Lon:         *b.Lon,
			Rating:      b.Rating,
			ReviewCount: b.ReviewCount,
			Dominant:    s.Dominant,
			Color:       s.Dominant.Color(),
		})
	}
	return out
}

func reviewRows(scored []domain.ScoredReview) []domain.ReviewRow {
	out := make([]domain.ReviewRow, len(scored))
	for i, r := range scored {
		out[i] = domain.ReviewRow{
			BusinessID: r.BusinessID,
			Text:       r.Text,
			Sentiment:  r.Predicted,
			Created:    r.Created,
			Rating:     r.Rating,
		}
	}
	return out
}
