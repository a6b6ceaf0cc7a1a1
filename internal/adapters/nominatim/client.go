package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"coffee_finder/internal/adapters/observability"
	"coffee_finder/internal/domain"
)

const service = "nominatim"

// Geocoder resolves free-form place text through an OpenStreetMap Nominatim endpoint.
// The public instance allows about one request per second per client.
type Geocoder struct {
	base      string
	userAgent string
	hc        *http.Client
	rl        *rate.Limiter
}

func New(base, userAgent string) *Geocoder {
	if userAgent == "" {
		userAgent = "coffee-finder/1.0"
	}
	return &Geocoder{
		base:      strings.TrimRight(base, "/"),
		userAgent: userAgent,
		hc:        &http.Client{Timeout: 10 * time.Second},
		rl:        rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *Geocoder) Geocode(ctx context.Context, text string) (domain.Coordinates, error) {
	if err := g.rl.Wait(ctx); err != nil {
		return domain.Coordinates{}, err
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, "search", 0, time.Since(start))
		return domain.Coordinates{}, fmt.Errorf("%w: %w", domain.ErrGeocodeFailure, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, "search", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("%w: nominatim status %d", domain.ErrGeocodeFailure, resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: decode: %w", domain.ErrGeocodeFailure, err)
	}
	if len(places) == 0 {
		return domain.Coordinates{}, domain.ErrNotFound
	}

	lat, err1 := strconv.ParseFloat(places[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(places[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: bad coordinates %q,%q", domain.ErrGeocodeFailure, places[0].Lat, places[0].Lon)
	}
	return domain.Coordinates{Lat: lat, Lng: lng}, nil
}
