package app

import (
	"context"
	"sync"

	"coffee_finder/internal/adapters/observability"
	"coffee_finder/internal/domain"
)

// MemoryDetailCache is a write-once, process-local detail cache. With max == 0 it is
// unbounded and lives as long as the process; with max > 0 the oldest entry is evicted
// first.
type MemoryDetailCache struct {
	mu    sync.RWMutex
	items map[string]domain.Venue
	order []string
	max   int
}

func NewMemoryDetailCache(max int) *MemoryDetailCache {
	return &MemoryDetailCache{items: make(map[string]domain.Venue), max: max}
}

func (m *MemoryDetailCache) Get(_ context.Context, id string) (domain.Venue, bool) {
	m.mu.RLock()
	v, ok := m.items[id]
	m.mu.RUnlock()
	if ok {
		observability.ObserveCache("memory", "hit")
	} else {
		observability.ObserveCache("memory", "miss")
	}
	return v, ok
}

// Put stores v unless id is already present.
func (m *MemoryDetailCache) Put(_ context.Context, id string, v domain.Venue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; ok {
		return
	}
	if m.max > 0 && len(m.order) >= m.max {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.items, oldest)
	}
	m.items[id] = v
	m.order = append(m.order, id)
	observability.ObserveCache("memory", "set")
}

func (m *MemoryDetailCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
