package app_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shiny_stats/internal/app"
	"shiny_stats/internal/dataset"
	"shiny_stats/internal/domain"
	"shiny_stats/internal/rank"
	"shiny_stats/internal/sentiment"
)

// ---- fakes ----

// fakeCache stores marshaled JSON so any cacheable value round-trips the same
// way it would through Redis.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func (c *fakeCache) keyWithPrefix(prefix string) string {
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			return k
		}
	}
	return ""
}

// ---- fixture ----

const businessesCSV = `business_id,name,address,city,state,zip_code,phone,categories,rating,review_count,price,latitude,longitude,url
b1,Shine Pro,123 Main St,Orlando,FL,32801,,Auto Detailing,4.5,12,$$,28.54,-81.38,
b2,Rust Bucket,9 Dust Rd,Tampa,FL,33601,,Auto Detailing,2.0,15,$,27.95,-82.46,
`

func reviewsFixture() string {
	var b strings.Builder
	b.WriteString("review_id,business_id,user_id,user_name,rating,text,time_created,url\n")
	pos := []string{
		"excellent service spotless finish highly recommend",
		"amazing attention spotless interior excellent results",
		"fantastic wax excellent shine highly recommend",
	}
	neg := []string{
		"terrible experience rude staff scratched paint",
		"awful rude service terrible scratches everywhere",
		"scratched hood awful experience never again",
	}
	for i, txt := range pos {
		b.WriteString("p" + string(rune('1'+i)) + ",b1,u1,Ana,5," + txt + ",2026-08-01 10:00:00,\n")
	}
	for i, txt := range neg {
		b.WriteString("n" + string(rune('1'+i)) + ",b2,u2,Luis,1," + txt + ",2026-08-02 10:00:00,\n")
	}
	return b.String()
}

func writeFixture(t *testing.T, reviews string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, dataset.BusinessesFile), []byte(businessesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataset.ReviewsFile), []byte(reviews), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// ---- tests ----

func TestSnapshotEndToEnd(t *testing.T) {
	dir := writeFixture(t, reviewsFixture())
	cache := &fakeCache{}
	p := app.NewPipeline(dir, cache, sentiment.DefaultConfig(), 10*time.Minute)

	snap, err := p.Snapshot(context.Background(), domain.DefaultFilter(), rank.DefaultParams())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if snap.Degraded {
		t.Fatalf("two separable classes should train, not degrade")
	}

	if len(snap.Leaderboard) != 2 {
		t.Fatalf("expected 2 ranked businesses, got %d", len(snap.Leaderboard))
	}
	if snap.Leaderboard[0].BusinessID != "b1" {
		t.Fatalf("expected b1 on top, got %s", snap.Leaderboard[0].BusinessID)
	}
	for _, e := range snap.Leaderboard {
		if e.Score < 0 || e.Score > 100 {
			t.Fatalf("score out of range: %+v", e)
		}
	}

	if len(snap.Businesses) != 2 {
		t.Fatalf("expected 2 map rows, got %d", len(snap.Businesses))
	}
	if len(snap.Reviews) != 6 {
		t.Fatalf("expected 6 detailed reviews, got %d", len(snap.Reviews))
	}

	// reporting artifact written as a side effect
	raw, err := os.ReadFile(filepath.Join(dir, dataset.SummaryFile))
	if err != nil {
		t.Fatalf("summary artifact missing: %v", err)
	}
	if !strings.Contains(string(raw), "b1,3,") {
		t.Fatalf("unexpected summary artifact:\n%s", raw)
	}
}

func TestSnapshotUsesCachedModel(t *testing.T) {
	dir := writeFixture(t, reviewsFixture())
	cache := &fakeCache{}
	p := app.NewPipeline(dir, cache, sentiment.DefaultConfig(), 10*time.Minute)

	if _, err := p.Snapshot(context.Background(), domain.DefaultFilter(), rank.DefaultParams()); err != nil {
		t.Fatalf("err: %v", err)
	}
	modelKey := cache.keyWithPrefix("model:")
	if modelKey == "" {
		t.Fatal("expected a content-addressed model cache entry")
	}

	// Replace the cached model with one that always answers Negativo. A second
	// run with a different filter (fresh snapshot key) must load it instead of
	// retraining.
	rigged := sentiment.Model{
		Conf:    sentiment.DefaultConfig(),
		Vec:     &sentiment.Vectorizer{MaxFeatures: 2000, Vocab: map[string]int{}},
		Classes: []domain.Sentiment{domain.Positive, domain.Negative},
		W:       [][]float64{{-10}, {10}},
	}
	if err := cache.Set(context.Background(), modelKey, &rigged, 600); err != nil {
		t.Fatal(err)
	}

	f := domain.DefaultFilter()
	f.MinRating = 1.5 // different snapshot key, same model key
	snap, err := p.Snapshot(context.Background(), f, rank.DefaultParams())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for _, r := range snap.Reviews {
		if r.Sentiment != domain.Negative {
			t.Fatalf("expected cached model to drive predictions, got %s", r.Sentiment)
		}
	}
}

func TestSnapshotServedFromSnapshotCache(t *testing.T) {
	dir := writeFixture(t, reviewsFixture())
	cache := &fakeCache{}
	p := app.NewPipeline(dir, cache, sentiment.DefaultConfig(), 10*time.Minute)

	first, err := p.Snapshot(context.Background(), domain.DefaultFilter(), rank.DefaultParams())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// drop the model so a recompute would be forced to retrain; the snapshot
	// cache must answer before that happens
	if k := cache.keyWithPrefix("model:"); k != "" {
		_ = cache.Del(context.Background(), k)
	}
	second, err := p.Snapshot(context.Background(), domain.DefaultFilter(), rank.DefaultParams())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(second.Leaderboard) != len(first.Leaderboard) {
		t.Fatalf("cached snapshot differs: %d vs %d rows", len(second.Leaderboard), len(first.Leaderboard))
	}
	if cache.keyWithPrefix("model:") != "" {
		t.Fatal("snapshot cache hit must not retrain the model")
	}
}

func TestSnapshotDegradedFallback(t *testing.T) {
	// single-class input: training must fail and predictions fall back to the
	// rating-derived labels
	reviews := "review_id,business_id,user_id,user_name,rating,text,time_created,url\n" +
		"r1,b1,u1,Ana,5,spotless finish great work,,\n" +
		"r2,b1,u2,Mia,5,excellent shine,,\n" +
		"r3,b1,u3,Joe,5,highly recommend,,\n"
	dir := writeFixture(t, reviews)
	cache := &fakeCache{}
	p := app.NewPipeline(dir, cache, sentiment.DefaultConfig(), 10*time.Minute)

	snap, err := p.Snapshot(context.Background(), domain.DefaultFilter(), rank.DefaultParams())
	if err != nil {
		t.Fatalf("degraded mode must not fail: %v", err)
	}
	if !snap.Degraded {
		t.Fatal("expected degraded snapshot")
	}
	for _, r := range snap.Reviews {
		if r.Sentiment != domain.Positive {
			t.Fatalf("fallback must use rating-derived labels, got %s", r.Sentiment)
		}
	}
}

func TestSnapshotMissingInput(t *testing.T) {
	p := app.NewPipeline(t.TempDir(), &fakeCache{}, sentiment.DefaultConfig(), time.Minute)
	_, err := p.Snapshot(context.Background(), domain.DefaultFilter(), rank.DefaultParams())
	if err == nil {
		t.Fatal("expected error for missing input files")
	}
}

func TestWordsFilteredBySentiment(t *testing.T) {
	dir := writeFixture(t, reviewsFixture())
	p := app.NewPipeline(dir, &fakeCache{}, sentiment.DefaultConfig(), 10*time.Minute)

	neg := domain.Negative
	words, err := p.Words(context.Background(), domain.DefaultFilter(), rank.DefaultParams(), &neg, 50)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("expected word frequencies for negative reviews")
	}
	for _, w := range words {
		if w.Word == "excellent" {
			t.Fatal("positive-review vocabulary leaked into negative word counts")
		}
	}
}
