package yelp_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"coffee_finder/internal/adapters/yelp"
	"coffee_finder/internal/domain"
)

func TestClient_New_RequiresKey(t *testing.T) {
	_, err := yelp.New("http://example.invalid", "", 5)
	if !errors.Is(err, domain.ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
}

func TestClient_Search_SendsQueryAndAuth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/businesses/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		q := r.URL.Query()
		if q.Get("radius") != "8045" || q.Get("term") != "coffee" || q.Get("sort_by") != "distance" {
			t.Errorf("unexpected query %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"businesses": []map[string]any{{"id": "a", "name": "Kope Bean"}},
		})
	}))
	defer ts.Close()

	cl, err := yelp.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := cl.Search(context.Background(), domain.SearchQuery{
		Origin:       domain.Coordinates{Lat: 21.29, Lng: -157.84},
		RadiusMeters: 8045,
		Term:         "coffee",
		SortBy:       "distance",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 || out[0]["id"] != "a" {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestClient_GetBusiness_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(503)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "abc", "rating": 4.5})
		}
	}))
	defer ts.Close()

	cl, err := yelp.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetBusiness(ctx, "abc")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["id"] != "abc" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetReviews_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := yelp.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = cl.GetReviews(ctx, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_GetReviews_Unwraps(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/businesses/abc/reviews" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"reviews": []map[string]any{{"text": "great cortado"}, {"text": "cortado again"}},
		})
	}))
	defer ts.Close()

	cl, _ := yelp.New(ts.URL, "test-key", 100)
	rs, err := cl.GetReviews(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(rs))
	}
}
