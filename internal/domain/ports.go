package domain

import "context"

// DirectoryClient talks to the business directory. Payloads stay raw; app/mappers.go
// turns them into Venues.
type DirectoryClient interface {
	Search(ctx context.Context, q SearchQuery) ([]map[string]any, error)
	GetBusiness(ctx context.Context, id string) (map[string]any, error)
	GetReviews(ctx context.Context, id string) ([]map[string]any, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, text string) (Coordinates, error)
}

type DetailFetcher interface {
	FetchDetail(ctx context.Context, id string) (Venue, error)
}

type ReviewFetcher interface {
	FetchReviews(ctx context.Context, id string) ([]ReviewText, error)
}

// DetailCache holds previously fetched venue details keyed by venue id.
type DetailCache interface {
	Get(ctx context.Context, id string) (Venue, bool)
	Put(ctx context.Context, id string, v Venue)
}

// RecordStore is the demo dataset used when the directory is not configured.
type RecordStore interface {
	GetAll(ctx context.Context) ([]Venue, error)
	GetByID(ctx context.Context, id string) (Venue, error)
	Query(ctx context.Context, field, value string) ([]Venue, error)
	Insert(ctx context.Context, v Venue) error
	Stats(ctx context.Context) (StoreStats, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
