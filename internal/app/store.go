package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"coffee_finder/internal/domain"
)

// MemoryStore is a process-local RecordStore used when no database is configured.
// Rows come back ordered by rating desc, review count desc.
type MemoryStore struct {
	mu    sync.RWMutex
	rows  map[string]domain.Venue
	order []string
}

func NewMemoryStore(seed ...domain.Venue) *MemoryStore {
	s := &MemoryStore{rows: make(map[string]domain.Venue)}
	for _, v := range seed {
		_ = s.Insert(context.Background(), v)
	}
	return s
}

func (s *MemoryStore) Insert(_ context.Context, v domain.Venue) error {
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("memory store: venue id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	s.rows[v.ID] = v
	return nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]domain.Venue, error) {
	return s.where(func(domain.Venue) bool { return true }), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.rows[id]
	if !ok {
		return domain.Venue{}, domain.ErrNotFound
	}
	return v, nil
}

// Query matches zip_code and state exactly, city and name by case-insensitive substring.
func (s *MemoryStore) Query(_ context.Context, field, value string) ([]domain.Venue, error) {
	value = strings.TrimSpace(value)
	low := strings.ToLower(value)
	switch field {
	case "zip_code":
		return s.where(func(v domain.Venue) bool { return v.ZipCode == value }), nil
	case "state":
		return s.where(func(v domain.Venue) bool { return strings.EqualFold(v.State, value) }), nil
	case "city":
		return s.where(func(v domain.Venue) bool { return strings.Contains(strings.ToLower(v.City), low) }), nil
	case "name":
		return s.where(func(v domain.Venue) bool { return strings.Contains(strings.ToLower(v.Name), low) }), nil
	}
	return nil, fmt.Errorf("memory store: unsupported query field %q", field)
}

func (s *MemoryStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	all, _ := s.GetAll(ctx)
	st := domain.StoreStats{
		TotalShops: len(all),
		ByCity:     map[string]int{},
		ByState:    map[string]int{},
	}
	var sum float64
	for _, v := range all {
		sum += v.Rating
		st.ByCity[v.City]++
		st.ByState[v.State]++
	}
	if len(all) > 0 {
		st.AvgRating = math.Round(sum/float64(len(all))*100) / 100
	}
	st.TopRated = capVenues(all, 5)
	return st, nil
}

func (s *MemoryStore) where(keep func(domain.Venue) bool) []domain.Venue {
	s.mu.RLock()
	out := []domain.Venue{}
	for _, id := range s.order {
		if v := s.rows[id]; keep(v) {
			out = append(out, v)
		}
	}
	s.mu.RUnlock()
	SortVenues(out)
	return out
}
