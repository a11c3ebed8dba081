//go:build integration || !unit

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"shiny_stats/internal/adapters/http_server"
	redisad "shiny_stats/internal/adapters/redis"
	"shiny_stats/internal/app"
	"shiny_stats/internal/dataset"
	"shiny_stats/internal/sentiment"
)

const businessesCSV = `business_id,name,address,city,state,zip_code,phone,categories,rating,review_count,price,latitude,longitude,url
b1,Shine Pro,123 Main St,Orlando,FL,32801,,Auto Detailing,4.5,12,$$,28.54,-81.38,
b2,Rust Bucket,9 Dust Rd,Tampa,FL,33601,,Auto Detailing,2.0,15,$,27.95,-82.46,
`

const reviewsCSV = `review_id,business_id,user_id,user_name,rating,text,time_created,url
p1,b1,u1,Ana,5,excellent service spotless finish highly recommend,2026-08-01 10:00:00,
p2,b1,u1,Ana,5,amazing attention spotless interior excellent results,2026-08-01 11:00:00,
p3,b1,u1,Ana,5,fantastic wax excellent shine highly recommend,2026-08-01 12:00:00,
n1,b2,u2,Luis,1,terrible experience rude staff scratched paint,2026-08-02 10:00:00,
n2,b2,u2,Luis,1,awful rude service terrible scratches everywhere,2026-08-02 11:00:00,
n3,b2,u2,Luis,1,scratched hood awful experience never again,2026-08-02 12:00:00,
`

// Spins up the whole read path in-process: CSV dataset on disk, miniredis
// behind the cache port, the real router with all middlewares, and asserts on
// the JSON the dashboard endpoints serve.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, dataset.BusinessesFile), []byte(businessesCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, dataset.ReviewsFile), []byte(reviewsCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	pipeline := app.NewPipeline(dir, cache, sentiment.DefaultConfig(), 10*time.Minute)

	s := httpserver.New()
	s.MountHandlers(&httpserver.Handlers{P: pipeline})
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return res
}

func TestHTTP_EndToEnd_Dashboard(t *testing.T) {
	ts := startServer(t)

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil || res.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %v status=%v", err, res.Status)
	}
	res.Body.Close()

	var lb struct {
		Count       int `json:"count"`
		Leaderboard []struct {
			Rank       int     `json:"rank"`
			BusinessID string  `json:"business_id"`
			Dominant   string  `json:"dominant_sentiment"`
			Score      float64 `json:"ranking_score"`
		} `json:"leaderboard"`
	}
	lbRes := getJSON(t, ts.URL+"/v1/leaderboard", &lb)
	if lb.Count != 2 || len(lb.Leaderboard) != 2 {
		t.Fatalf("unexpected leaderboard: %+v", lb)
	}
	if lb.Leaderboard[0].BusinessID != "b1" || lb.Leaderboard[0].Rank != 1 {
		t.Fatalf("expected b1 first: %+v", lb.Leaderboard)
	}
	if lb.Leaderboard[0].Score <= lb.Leaderboard[1].Score {
		t.Fatalf("leaderboard not sorted by score: %+v", lb.Leaderboard)
	}
	if lb.Leaderboard[0].Dominant != "Positivo" {
		t.Fatalf("expected dominant Positivo for b1: %+v", lb.Leaderboard[0])
	}

	// conditional GET on the same resource
	etag := lbRes.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag on leaderboard response")
	}
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/leaderboard", nil)
	req.Header.Set("If-None-Match", etag)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res.StatusCode)
	}

	var biz struct {
		Count      int `json:"count"`
		Businesses []struct {
			BusinessID string  `json:"business_id"`
			Lat        float64 `json:"lat"`
		} `json:"businesses"`
	}
	getJSON(t, ts.URL+"/v1/businesses", &biz)
	if biz.Count != 2 {
		t.Fatalf("unexpected businesses: %+v", biz)
	}

	var rev struct {
		Count   int `json:"count"`
		Reviews []struct {
			BusinessID string `json:"business_id"`
			Sentiment  string `json:"sentiment"`
		} `json:"reviews"`
	}
	getJSON(t, ts.URL+"/v1/reviews", &rev)
	if rev.Count != 6 {
		t.Fatalf("expected 6 reviews, got %d", rev.Count)
	}

	// filter down to negative-dominant businesses only
	getJSON(t, ts.URL+"/v1/reviews?sentiments=negativo", &rev)
	for _, r := range rev.Reviews {
		if r.BusinessID != "b2" {
			t.Fatalf("sentiment filter leaked business %s", r.BusinessID)
		}
	}

	var words struct {
		Count int `json:"count"`
		Words []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		} `json:"words"`
	}
	getJSON(t, ts.URL+"/v1/words?sentiment=positivo&limit=5", &words)
	if words.Count == 0 || len(words.Words) > 5 {
		t.Fatalf("unexpected words payload: %+v", words)
	}
}

func TestHTTP_BadParams(t *testing.T) {
	ts := startServer(t)

	for _, q := range []string{
		"min_rating=9",
		"sentiment_weight=2",
		"recency_factor=-1",
		"sentiments=bogus",
	} {
		res, err := http.Get(ts.URL + "/v1/leaderboard?" + q)
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, res.StatusCode)
		}
		if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "problem+json") {
			t.Fatalf("%s: expected problem+json, got %s", q, ct)
		}
		res.Body.Close()
	}
}

func TestHTTP_MissingDataset(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	pipeline := app.NewPipeline(t.TempDir(), cache, sentiment.DefaultConfig(), time.Minute)

	s := httpserver.New()
	s.MountHandlers(&httpserver.Handlers{P: pipeline})
	ts := httptest.NewServer(s.Mux())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for missing dataset, got %d", res.StatusCode)
	}
}
