package domain

import "context"

// ReviewProvider is the outbound port to a business/review data source
// (Yelp Fusion in production, httptest fakes in tests).
type ReviewProvider interface {
	SearchBusinesses(ctx context.Context, q BusinessSearch) ([]map[string]any, error)
	GetReviews(ctx context.Context, businessID string) ([]map[string]any, error)
}

// BusinessSearch parameterizes a paginated provider search.
type BusinessSearch struct {
	Term     string
	Location string
	Limit    int
	Offset   int
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
