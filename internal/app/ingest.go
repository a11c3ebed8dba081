package app

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"shiny_stats/internal/adapters/yelp"
	"shiny_stats/internal/dataset"
	"shiny_stats/internal/domain"
)

// IngestionService builds the flat input tables from the review provider:
// paginated business search, then a bounded-concurrency pass fetching each
// business's reviews. The analysis pipeline itself stays single-threaded; only
// this batch fetch fans out.
type IngestionService struct {
	provider domain.ReviewProvider
	outDir   string

	Term          string
	Location      string
	PageSize      int
	MaxBusinesses int
	Workers       int
}

func NewIngestionService(p domain.ReviewProvider, outDir string) *IngestionService {
	return &IngestionService{
		provider:      p,
		outDir:        outDir,
		Term:          "car detailing",
		Location:      "Florida",
		PageSize:      50,
		MaxBusinesses: 500,
		Workers:       8,
	}
}

// Run fetches one full dataset and writes businesses.csv and reviews.csv.
// Search errors are terminal; per-business review misses are logged and
// skipped so one dead listing cannot sink the batch.
func (s *IngestionService) Run(ctx context.Context) error {
	businesses, err := s.fetchBusinesses(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("businesses", len(businesses)).Msg("business search complete")

	reviews, err := s.fetchReviews(ctx, businesses)
	if err != nil {
		return err
	}
	log.Info().Int("reviews", len(reviews)).Msg("review fetch complete")

	if err := dataset.WriteBusinesses(filepath.Join(s.outDir, dataset.BusinessesFile), businesses); err != nil {
		return err
	}
	return dataset.WriteReviews(filepath.Join(s.outDir, dataset.ReviewsFile), reviews)
}

func (s *IngestionService) fetchBusinesses(ctx context.Context) ([]domain.Business, error) {
	var out []domain.Business
	for offset := 0; offset < s.MaxBusinesses; offset += s.PageSize {
		hits, err := s.provider.SearchBusinesses(ctx, domain.BusinessSearch{
			Term:     s.Term,
			Location: s.Location,
			Limit:    s.PageSize,
			Offset:   offset,
		})
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			break
		}
		for _, h := range hits {
			b, ok := mapBusiness(h)
			if !ok {
				log.Debug().Msg("search hit dropped: no id or rating")
				continue
			}
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *IngestionService) fetchReviews(ctx context.Context, businesses []domain.Business) ([]domain.Review, error) {
	sem := semaphore.NewWeighted(int64(s.Workers))
	var (
		mu  sync.Mutex
		out []domain.Review
		wg  sync.WaitGroup
	)

	for _, b := range businesses {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(b domain.Business) {
			defer wg.Done()
			defer sem.Release(1)

			payloads, err := s.provider.GetReviews(ctx, b.ID)
			if err != nil {
				if errors.Is(err, yelp.ErrNotFound) {
					log.Debug().Str("business", b.ID).Msg("no reviews for business")
				} else {
					log.Warn().Str("business", b.ID).Err(err).Msg("review fetch failed")
				}
				return
			}

			rows := make([]domain.Review, 0, len(payloads))
			for _, p := range payloads {
				if r, ok := mapReview(b.ID, p); ok {
					rows = append(rows, r)
				}
			}
			mu.Lock()
			out = append(out, rows...)
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	// Concurrent fetch order is nondeterministic; sort so the written table is
	// stable across runs of the same data.
	sort.Slice(out, func(i, j int) bool {
		if out[i].BusinessID != out[j].BusinessID {
			return out[i].BusinessID < out[j].BusinessID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
