package app

import (
	"context"
	"sync"
	"testing"

	"coffee_finder/internal/domain"
)

func TestMemoryDetailCache_WriteOnce(t *testing.T) {
	c := NewMemoryDetailCache(0)
	ctx := context.Background()

	c.Put(ctx, "a", domain.Venue{ID: "a", Name: "first"})
	c.Put(ctx, "a", domain.Venue{ID: "a", Name: "second"})

	v, ok := c.Get(ctx, "a")
	if !ok || v.Name != "first" {
		t.Fatalf("expected first write to win, got %+v (ok=%v)", v, ok)
	}
}

func TestMemoryDetailCache_EvictsOldest(t *testing.T) {
	c := NewMemoryDetailCache(2)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		c.Put(ctx, id, domain.Venue{ID: id})
	}
	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatalf("oldest entry should be evicted")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestMemoryDetailCache_Concurrent(t *testing.T) {
	c := NewMemoryDetailCache(0)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Put(ctx, "shared", domain.Venue{ID: "shared", ReviewCount: i})
			_, _ = c.Get(ctx, "shared")
		}(i)
	}
	wg.Wait()
	if c.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", c.Len())
	}
}
