package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"shiny_stats/internal/domain"
)

// WriteSummary writes the per-business sentiment summary artifact. The column
// set and the lowercase dominant values are part of the reporting contract.
// The file is a side effect, never read back as input within the same run.
func WriteSummary(path string, rows []domain.BusinessSummary) error {
	return writeCSV(path,
		[]string{"business_id", "num_reviews", "sentiment_positivo", "sentiment_negativo", "sentiment_neutral", "dominant_sentiment"},
		len(rows), func(i int) []string {
			s := rows[i]
			return []string{
				s.BusinessID,
				strconv.Itoa(s.NumReviews),
				strconv.Itoa(s.Positive),
				strconv.Itoa(s.Negative),
				strconv.Itoa(s.Neutral),
				strings.ToLower(string(s.Dominant)),
			}
		})
}

// WriteBusinesses writes the businesses table in the ingestion column order.
func WriteBusinesses(path string, rows []domain.Business) error {
	return writeCSV(path,
		[]string{"business_id", "name", "address", "city", "state", "zip_code", "phone", "categories", "rating", "review_count", "price", "latitude", "longitude", "url"},
		len(rows), func(i int) []string {
			b := rows[i]
			return []string{
				b.ID,
				b.Name,
				deref(b.Address),
				deref(b.City),
				deref(b.State),
				deref(b.ZipCode),
				deref(b.Phone),
				strings.Join(b.Categories, ", "),
				formatFloat(b.Rating),
				strconv.Itoa(b.ReviewCount),
				deref(b.Price),
				formatOptFloat(b.Lat),
				formatOptFloat(b.Lon),
				deref(b.URL),
			}
		})
}

// WriteReviews writes the reviews table in the ingestion column order.
func WriteReviews(path string, rows []domain.Review) error {
	return writeCSV(path,
		[]string{"review_id", "business_id", "user_id", "user_name", "rating", "text", "time_created", "url"},
		len(rows), func(i int) []string {
			r := rows[i]
			created := ""
			if r.Created != nil {
				created = r.Created.Format("2006-01-02 15:04:05")
			}
			return []string{
				r.ID,
				r.BusinessID,
				deref(r.UserID),
				deref(r.UserName),
				formatFloat(r.Rating),
				r.Text,
				created,
				deref(r.URL),
			}
		})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func formatOptFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}
