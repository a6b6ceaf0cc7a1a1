package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "coffee_finder/internal/adapters/redis"
	"coffee_finder/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]int{"n": 3}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got map[string]int
	ok, err := c.Get(ctx, "k", &got)
	if err != nil || !ok || got["n"] != 3 {
		t.Fatalf("get: ok=%v err=%v got=%v", ok, err, got)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "k", &got)
	if err != nil || ok {
		t.Fatalf("expected miss after delete, ok=%v err=%v", ok, err)
	}
}

func TestDetailCache_FirstWriteWins(t *testing.T) {
	c, _ := newCache(t)
	dc := redisad.NewDetailCache(c, 60)
	ctx := context.Background()

	if _, ok := dc.Get(ctx, "v1"); ok {
		t.Fatalf("expected empty cache")
	}
	dc.Put(ctx, "v1", domain.Venue{ID: "v1", Name: "First Roast"})
	dc.Put(ctx, "v1", domain.Venue{ID: "v1", Name: "Second Roast"})

	got, ok := dc.Get(ctx, "v1")
	if !ok || got.Name != "First Roast" {
		t.Fatalf("unexpected cached venue ok=%v %+v", ok, got)
	}
}

func TestDetailCache_Expires(t *testing.T) {
	c, mr := newCache(t)
	dc := redisad.NewDetailCache(c, 10)
	ctx := context.Background()

	dc.Put(ctx, "v2", domain.Venue{ID: "v2", Name: "Kona Brew"})
	mr.FastForward(11 * time.Second)

	if _, ok := dc.Get(ctx, "v2"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestDetailCache_UnavailableIsMiss(t *testing.T) {
	c, mr := newCache(t)
	dc := redisad.NewDetailCache(c, 10)
	mr.Close()

	if _, ok := dc.Get(context.Background(), "v3"); ok {
		t.Fatalf("expected miss when redis is down")
	}
}

func TestCache_CloseReleasesClient(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping to fail on a closed client")
	}
}
