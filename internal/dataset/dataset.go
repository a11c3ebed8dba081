// Package dataset loads and writes the flat tabular inputs and artifacts of
// the pipeline: businesses.csv, reviews.csv and the business_sentiment.csv
// summary. Malformed rows are coerced or rejected here, at the ingestion
// boundary, so the scoring logic only ever sees validated records.
package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"shiny_stats/internal/domain"
)

const (
	BusinessesFile = "businesses.csv"
	ReviewsFile    = "reviews.csv"
	SummaryFile    = "business_sentiment.csv"
)

// ErrMissingInput marks an absent required input file. The pipeline aborts on
// it; callers get empty result sets, never a partial dashboard.
var ErrMissingInput = errors.New("dataset: required input file missing")

// Dataset is one loaded snapshot of the input tables. ReviewsHash is the
// sha256 of the raw reviews file and feeds the content-addressed model cache.
type Dataset struct {
	Businesses []domain.Business
	Reviews    []domain.Review

	ReviewsHash       string
	SkippedBusinesses int
	SkippedReviews    int
}

// Load reads both input tables from dir. A missing file is terminal for the
// run (wrapped ErrMissingInput); individual malformed rows are skipped and
// counted instead.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}

	var err error
	ds.Businesses, ds.SkippedBusinesses, err = loadBusinesses(filepath.Join(dir, BusinessesFile))
	if err != nil {
		return nil, err
	}
	ds.Reviews, ds.ReviewsHash, ds.SkippedReviews, err = loadReviews(filepath.Join(dir, ReviewsFile))
	if err != nil {
		return nil, err
	}

	if ds.SkippedBusinesses+ds.SkippedReviews > 0 {
		log.Warn().
			Int("businesses", ds.SkippedBusinesses).
			Int("reviews", ds.SkippedReviews).
			Msg("skipped malformed rows during load")
	}
	return ds, nil
}

func loadBusinesses(path string) ([]domain.Business, int, error) {
	recs, err := readTable(path)
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Business, 0, len(recs.rows))
	skipped := 0
	for _, row := range recs.rows {
		b, err := parseBusiness(recs, row)
		if err != nil {
			skipped++
			log.Debug().Err(err).Str("file", BusinessesFile).Msg("row rejected")
			continue
		}
		out = append(out, b)
	}
	return out, skipped, nil
}

func loadReviews(path string) ([]domain.Review, string, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", 0, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, "", 0, err
	}
	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	recs, err := parseTable(path, strings.NewReader(string(raw)))
	if err != nil {
		return nil, "", 0, err
	}

	out := make([]domain.Review, 0, len(recs.rows))
	skipped := 0
	for _, row := range recs.rows {
		r, err := parseReview(recs, row)
		if err != nil {
			skipped++
			log.Debug().Err(err).Str("file", ReviewsFile).Msg("row rejected")
			continue
		}
		out = append(out, r)
	}
	return out, hash, skipped, nil
}

func parseBusiness(t *table, row []string) (domain.Business, error) {
	id := t.get(row, "business_id")
	if id == "" {
		return domain.Business{}, errors.New("blank business_id")
	}
	rating, err := strconv.ParseFloat(t.get(row, "rating"), 64)
	if err != nil {
		return domain.Business{}, fmt.Errorf("unparseable rating %q", t.get(row, "rating"))
	}
	count := 0
	if s := t.get(row, "review_count"); s != "" {
		if count, err = strconv.Atoi(s); err != nil {
			return domain.Business{}, fmt.Errorf("unparseable review_count %q", s)
		}
	}

	b := domain.Business{
		ID:          id,
		Name:        t.get(row, "name"),
		Address:     optStr(t.get(row, "address")),
		City:        optStr(t.get(row, "city")),
		State:       optStr(t.get(row, "state")),
		ZipCode:     optStr(t.get(row, "zip_code")),
		Phone:       optStr(t.get(row, "phone")),
		Rating:      rating,
		ReviewCount: count,
		Price:       optStr(t.get(row, "price")),
		Lat:         optFloat(t.get(row, "latitude")),
		Lon:         optFloat(t.get(row, "longitude")),
		URL:         optStr(t.get(row, "url")),
	}
	if cats := t.get(row, "categories"); cats != "" {
		for _, c := range strings.Split(cats, ",") {
			if c = strings.TrimSpace(c); c != "" {
				b.Categories = append(b.Categories, c)
			}
		}
	}
	return b, nil
}

func parseReview(t *table, row []string) (domain.Review, error) {
	id := t.get(row, "review_id")
	bizID := t.get(row, "business_id")
	if id == "" || bizID == "" {
		return domain.Review{}, errors.New("blank review_id or business_id")
	}
	// The raw data may carry non-numeric ratings; such rows must not silently
	// corrupt the label, so they are rejected rather than defaulted.
	rating, err := strconv.ParseFloat(t.get(row, "rating"), 64)
	if err != nil {
		return domain.Review{}, fmt.Errorf("unparseable rating %q", t.get(row, "rating"))
	}

	return domain.Review{
		ID:         id,
		BusinessID: bizID,
		UserID:     optStr(t.get(row, "user_id")),
		UserName:   optStr(t.get(row, "user_name")),
		Rating:     rating,
		Text:       t.get(row, "text"), // null text arrives as "", kept as ""
		Created:    optTime(t.get(row, "time_created")),
		URL:        optStr(t.get(row, "url")),
	}, nil
}

// ---- CSV plumbing ----

type table struct {
	cols map[string]int
	rows [][]string
}

func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, err
	}
	defer f.Close()
	return parseTable(path, f)
}

func parseTable(path string, r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows; parse functions validate

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &table{cols: make(map[string]int, len(header))}
	for i, h := range header {
		t.cols[strings.TrimSpace(h)] = i
	}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// ---- field coercion helpers ----

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// timeLayouts are accepted time_created formats, provider layout first.
var timeLayouts = []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"}

func optTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
