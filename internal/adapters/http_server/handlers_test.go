package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coffee_finder/internal/app"
	"coffee_finder/internal/domain"
	"coffee_finder/internal/shared"
)

func newTestServer(t *testing.T, store domain.RecordStore) *httptest.Server {
	t.Helper()
	p := app.NewPipeline(app.PipelineDeps{Store: store, Filter: domain.DefaultFilterConfig()})
	s := New(5 * time.Second)
	s.MountHandlers(&Handlers{P: p})
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func demoServer(t *testing.T) *httptest.Server {
	return newTestServer(t, app.NewMemoryStore(shared.DemoVenues()...))
}

func TestFindShops_ByZip(t *testing.T) {
	ts := demoServer(t)

	res, err := http.Get(ts.URL + "/v1/coffee-shops?zip_code=96815")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if res.Header.Get("ETag") == "" {
		t.Fatalf("missing ETag")
	}
	var body struct {
		Shops  []domain.Venue `json:"coffee_shops"`
		Status string         `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != app.StatusOK || len(body.Shops) != 1 || body.Shops[0].ID != "island-vintage-coffee" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestFindShops_ETagNotModified(t *testing.T) {
	ts := demoServer(t)
	url := ts.URL + "/v1/coffee-shops?lat=21.3069&lng=-157.8583&radius=5"

	res, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	etag := res.Header.Get("ETag")

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res2.StatusCode)
	}
}

func TestFindShops_BadInput(t *testing.T) {
	ts := demoServer(t)
	for _, q := range []string{
		"lat=abc&lng=1",
		"lat=21.3",
		"lat=91&lng=0",
		"radius=-1",
		"radius=100",
		"min_rating=6",
	} {
		res, err := http.Get(ts.URL + "/v1/coffee-shops?" + q)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, res.StatusCode)
		}
		if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("%s: unexpected content type %q", q, ct)
		}
	}
}

func TestFindShops_FailureIsStillOK(t *testing.T) {
	ts := newTestServer(t, nil)

	res, err := http.Get(ts.URL + "/v1/coffee-shops?location=Honolulu")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var body struct {
		Shops  []domain.Venue `json:"coffee_shops"`
		Status string         `json:"status"`
	}
	_ = json.NewDecoder(res.Body).Decode(&body)
	if res.StatusCode != http.StatusOK || body.Status != app.StatusConfigurationMissing || body.Shops == nil {
		t.Fatalf("unexpected response %d %+v", res.StatusCode, body)
	}
}

func TestGetShop(t *testing.T) {
	ts := demoServer(t)

	res, err := http.Get(ts.URL + "/v1/coffee-shops/morning-glass-coffee")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var v domain.Venue
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK || v.Name != "Morning Glass Coffee" || v.Summary == "" {
		t.Fatalf("unexpected response %d %+v", res.StatusCode, v)
	}

	res2, err := http.Get(ts.URL + "/v1/coffee-shops/nope")
	if err != nil {
		t.Fatal(err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res2.StatusCode)
	}
}

func TestStats(t *testing.T) {
	res, err := http.Get(demoServer(t).URL + "/v1/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var st domain.StoreStats
	if err := json.NewDecoder(res.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.TotalShops != 5 {
		t.Fatalf("unexpected stats %+v", st)
	}

	res2, err := http.Get(newTestServer(t, nil).URL + "/v1/stats")
	if err != nil {
		t.Fatal(err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a store, got %d", res2.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	res, err := http.Get(demoServer(t).URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
}
