package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"shiny_stats/internal/app"
	"shiny_stats/internal/dataset"
	"shiny_stats/internal/domain"
	"shiny_stats/internal/rank"
)

type Handlers struct{ P *app.Pipeline }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/businesses", h.listBusinesses)
	s.mux.Get("/v1/leaderboard", h.leaderboard)
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/words", h.listWords)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writePipelineError maps pipeline failures: a missing input file means the
// dataset has not been ingested yet (503), anything else is a server fault.
func writePipelineError(w http.ResponseWriter, err error) {
	if errors.Is(err, dataset.ErrMissingInput) {
		writeProblem(w, http.StatusServiceUnavailable, "Dataset Unavailable", err.Error())
		return
	}
	log.Error().Err(err).Msg("pipeline failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "pipeline failed")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- sidebar parameter parsing ----

// parseFilter builds the per-request filter config. Defaults keep everything:
// all three categories, rating floor 1.0.
func parseFilter(r *http.Request) (domain.FilterConfig, error) {
	f := domain.DefaultFilter()

	if raw := r.URL.Query().Get("sentiments"); raw != "" {
		f.Sentiments = f.Sentiments[:0]
		for _, part := range strings.Split(raw, ",") {
			s, ok := domain.ParseSentiment(strings.TrimSpace(part))
			if !ok {
				return f, errors.New("sentiments must be a comma list of positivo, neutral, negativo")
			}
			f.Sentiments = append(f.Sentiments, s)
		}
	}
	if raw := r.URL.Query().Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 1.0 || v > 5.0 {
			return f, errors.New("min_rating must be a number between 1.0 and 5.0")
		}
		f.MinRating = v
	}
	return f, nil
}

func parseParams(r *http.Request) (rank.Params, error) {
	p := rank.DefaultParams()

	if raw := r.URL.Query().Get("sentiment_weight"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return p, errors.New("sentiment_weight must be a number in [0,1]")
		}
		p.SentimentWeight = v
	}
	if raw := r.URL.Query().Get("recency_factor"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return p, errors.New("recency_factor must be a non-negative number")
		}
		p.RecencyFactor = v
	}
	return p, nil
}

func (h *Handlers) snapshot(w http.ResponseWriter, r *http.Request) (domain.Snapshot, bool) {
	f, err := parseFilter(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return domain.Snapshot{}, false
	}
	p, err := parseParams(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Params", err.Error())
		return domain.Snapshot{}, false
	}
	snap, err := h.P.Snapshot(r.Context(), f, p)
	if err != nil {
		writePipelineError(w, err)
		return domain.Snapshot{}, false
	}
	return snap, true
}

// ---- endpoints ----

func (h *Handlers) listBusinesses(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, struct {
		Count      int             `json:"count"`
		Businesses []domain.MapRow `json:"businesses"`
		Degraded   bool            `json:"degraded,omitempty"`
	}{len(snap.Businesses), snap.Businesses, snap.Degraded})
}

func (h *Handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, struct {
		Count       int                   `json:"count"`
		Leaderboard []domain.RankingEntry `json:"leaderboard"`
		Degraded    bool                  `json:"degraded,omitempty"`
	}{len(snap.Leaderboard), snap.Leaderboard, snap.Degraded})
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, struct {
		Count   int                `json:"count"`
		Reviews []domain.ReviewRow `json:"reviews"`
	}{len(snap.Reviews), snap.Reviews})
}

func (h *Handlers) listWords(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	p, err := parseParams(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Params", err.Error())
		return
	}

	var only *domain.Sentiment
	if raw := r.URL.Query().Get("sentiment"); raw != "" {
		s, ok := domain.ParseSentiment(raw)
		if !ok {
			writeProblem(w, http.StatusBadRequest, "Invalid Sentiment", "sentiment must be positivo, neutral or negativo")
			return
		}
		only = &s
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l <= 0 || l > 1000 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 1000")
			return
		}
		limit = l
	}

	words, err := h.P.Words(r.Context(), f, p, only, limit)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, r, struct {
		Count int                `json:"count"`
		Words []domain.WordCount `json:"words"`
	}{len(words), words})
}
