package geo

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"coffee_finder/internal/domain"
)

// fallback suffixes, tried in order after the verbatim query
var regionSuffixes = []string{", HI", ", Hawaii", ", USA"}

// Resolver turns free-text locations into coordinates. It never returns an error:
// an unresolvable query is reported as ok=false.
type Resolver struct {
	g        domain.Geocoder
	timeout  time.Duration
	cache    domain.Cache
	cacheTTL int
}

func NewResolver(g domain.Geocoder, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{g: g, timeout: timeout}
}

// WithCache remembers resolved queries for ttlSec seconds. Misses are not cached.
func (r *Resolver) WithCache(c domain.Cache, ttlSec int) *Resolver {
	r.cache, r.cacheTTL = c, ttlSec
	return r
}

func (r *Resolver) Resolve(ctx context.Context, query string) (domain.Coordinates, bool) {
	q := strings.TrimSpace(query)
	if q == "" || r.g == nil {
		return domain.Coordinates{}, false
	}

	key := "geo:" + strings.ToLower(q)
	if r.cache != nil {
		var c domain.Coordinates
		if ok, err := r.cache.Get(ctx, key, &c); err == nil && ok {
			return c, true
		} else if err != nil {
			log.Debug().Str("component", "geo").Err(err).Msg("geocode cache read failed")
		}
	}

	tried := make(map[string]bool, 5)
	for _, attempt := range candidates(q) {
		if tried[attempt] {
			continue
		}
		tried[attempt] = true

		if c, ok := r.try(ctx, attempt); ok {
			if r.cache != nil {
				if err := r.cache.Set(ctx, key, c, r.cacheTTL); err != nil {
					log.Debug().Str("component", "geo").Err(err).Msg("geocode cache write failed")
				}
			}
			return c, true
		}
		if ctx.Err() != nil {
			break
		}
	}
	log.Debug().Str("component", "geo").Str("query", q).Msg("location not resolved")
	return domain.Coordinates{}, false
}

func (r *Resolver) try(ctx context.Context, text string) (domain.Coordinates, bool) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	c, err := r.g.Geocode(cctx, text)
	if err != nil {
		log.Debug().Str("component", "geo").Str("attempt", text).Err(err).Msg("geocode attempt failed")
		return domain.Coordinates{}, false
	}
	return c, true
}

func candidates(q string) []string {
	out := []string{q}
	if IsZipCode(q) {
		out = append(out, q+", USA")
	}
	for _, s := range regionSuffixes {
		out = append(out, q+s)
	}
	return out
}

// IsZipCode reports whether s is a 5-digit US ZIP code.
func IsZipCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
