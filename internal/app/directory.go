package app

import (
	"context"
	"fmt"
	"time"

	"coffee_finder/internal/domain"
)

// DirectoryService adapts the raw directory client into typed fetchers for the
// classifier and the pipeline.
type DirectoryService struct {
	client domain.DirectoryClient
	now    func() time.Time
}

func NewDirectoryService(c domain.DirectoryClient) *DirectoryService {
	return &DirectoryService{client: c, now: time.Now}
}

func (s *DirectoryService) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Venue, error) {
	raw, err := s.client.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", domain.ErrFetchFailure, err)
	}
	now := s.now()
	out := make([]domain.Venue, 0, len(raw))
	for _, p := range raw {
		v := mapVenue(p, now)
		if v.ID == "" || v.Name == "" {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *DirectoryService) FetchDetail(ctx context.Context, id string) (domain.Venue, error) {
	p, err := s.client.GetBusiness(ctx, id)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("%w: business %s: %w", domain.ErrFetchFailure, id, err)
	}
	if len(p) == 0 {
		return domain.Venue{}, fmt.Errorf("%w: business %s: empty payload", domain.ErrFetchFailure, id)
	}
	v := mapVenue(p, s.now())
	if v.ID == "" {
		v.ID = id
	}
	return v, nil
}

func (s *DirectoryService) FetchReviews(ctx context.Context, id string) ([]domain.ReviewText, error) {
	raw, err := s.client.GetReviews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: reviews %s: %w", domain.ErrFetchFailure, id, err)
	}
	return mapReviews(raw), nil
}
