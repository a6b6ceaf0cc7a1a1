package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"coffee_finder/internal/adapters/observability"
	"coffee_finder/internal/domain"
)

// review mining issues an extra directory call; only well-established venues get it
const (
	reviewMiningMinRating  = 4.0
	reviewMiningMinReviews = 50
)

// strategy names, also used as metric labels
const (
	strategyInline   = "inline"
	strategyCache    = "cache"
	strategyDetail   = "detail"
	strategyReviews  = "reviews"
	strategyName     = "name_fallback"
	strategyCreative = "creative_fallback"
)

// OfferingClassifier picks a venue's signature offering by trying a fixed cascade of
// strategies; the first non-empty label wins. Classify never fails.
type OfferingClassifier struct {
	details domain.DetailFetcher
	reviews domain.ReviewFetcher
	cache   domain.DetailCache
	index   *drinkIndex
	timeout time.Duration
	sf      singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

type ClassifierOption func(*OfferingClassifier)

// WithDetailCache replaces the default in-process cache.
func WithDetailCache(c domain.DetailCache) ClassifierOption {
	return func(o *OfferingClassifier) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithRand pins the source used by the creative fallback tier.
func WithRand(r *rand.Rand) ClassifierOption {
	return func(o *OfferingClassifier) {
		if r != nil {
			o.rnd = r
		}
	}
}

func WithFetchTimeout(d time.Duration) ClassifierOption {
	return func(o *OfferingClassifier) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewOfferingClassifier accepts nil fetchers; the strategies that need them are skipped.
func NewOfferingClassifier(d domain.DetailFetcher, r domain.ReviewFetcher, opts ...ClassifierOption) *OfferingClassifier {
	c := &OfferingClassifier{
		details: d,
		reviews: r,
		cache:   NewMemoryDetailCache(0),
		index:   defaultDrinkIndex,
		timeout: 10 * time.Second,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify returns a non-empty signature offering label. inline, when given, is detail
// data the caller already holds (e.g. the search result itself).
func (c *OfferingClassifier) Classify(ctx context.Context, id, name string, inline *domain.Venue) string {
	return c.classifyWith(ctx, id, name, inline, nil, false)
}

// ClassifyWithReviews is Classify for a caller that already fetched the venue's
// reviews; review mining reads them instead of calling the directory again.
func (c *OfferingClassifier) ClassifyWithReviews(ctx context.Context, id, name string, inline *domain.Venue, reviews []domain.ReviewText) string {
	return c.classifyWith(ctx, id, name, inline, reviews, true)
}

func (c *OfferingClassifier) classifyWith(ctx context.Context, id, name string, inline *domain.Venue, reviews []domain.ReviewText, prefetched bool) string {
	label, strategy := c.classify(ctx, id, name, inline, reviews, prefetched)
	observability.ObserveStrategy(strategy)
	log.Debug().
		Str("component", "classifier").
		Str("id", id).
		Str("strategy", strategy).
		Str("label", label).
		Msg("signature offering")
	return label
}

func (c *OfferingClassifier) classify(ctx context.Context, id, name string, inline *domain.Venue, reviews []domain.ReviewText, prefetched bool) (string, string) {
	// 1) inline detail: no network
	if inline != nil {
		if l := guard(func() string { return c.scanVenue(*inline) }); l != "" {
			return l, strategyInline
		}
	}

	// 2) cache
	var detail *domain.Venue
	if id != "" {
		if cached, ok := c.cache.Get(ctx, id); ok {
			detail = &cached
			if l := guard(func() string { return c.fromCached(cached) }); l != "" {
				return l, strategyCache
			}
		}
	}

	// 3) detail fetch (skipped when the cache already answered for this id)
	if detail == nil {
		if d, ok := c.fetchDetail(ctx, id); ok {
			detail = &d
			if l := guard(func() string { return c.fromDetail(d) }); l != "" {
				return l, strategyDetail
			}
		}
	}

	// 4) review mining, gated on popularity
	if detail != nil && detail.Rating >= reviewMiningMinRating && detail.ReviewCount >= reviewMiningMinReviews {
		mine := func() string {
			if prefetched {
				return c.mineReviews(reviews)
			}
			return c.fromReviews(ctx, id)
		}
		if l := guard(mine); l != "" {
			return l, strategyReviews
		}
	}

	// 5) name
	if l := guard(func() string { return c.fromName(name) }); l != "" {
		return l, strategyName
	}
	return c.creative(), strategyCreative
}

// Detail returns the venue's detail record, reading the cache before the directory.
// A fetched record is cached, so a following Classify for the same id hits the cache.
func (c *OfferingClassifier) Detail(ctx context.Context, id string) (domain.Venue, bool) {
	if id == "" {
		return domain.Venue{}, false
	}
	if cached, ok := c.cache.Get(ctx, id); ok {
		return cached, true
	}
	return c.fetchDetail(ctx, id)
}

func (c *OfferingClassifier) fetchDetail(ctx context.Context, id string) (_ domain.Venue, ok bool) {
	if id == "" || c.details == nil {
		return domain.Venue{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("component", "classifier").Str("id", id).Interface("panic", r).Msg("detail fetch recovered")
			ok = false
		}
	}()
	v, err, _ := c.sf.Do(id, func() (any, error) {
		// a concurrent caller may have filled the cache while we waited
		if cached, ok := c.cache.Get(ctx, id); ok {
			return cached, nil
		}
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		d, err := c.details.FetchDetail(cctx, id)
		if err != nil {
			return nil, err
		}
		c.cache.Put(ctx, id, d)
		return d, nil
	})
	if err != nil {
		log.Debug().Str("component", "classifier").Str("id", id).Err(err).Msg("detail fetch failed")
		return domain.Venue{}, false
	}
	d, ok := v.(domain.Venue)
	return d, ok
}

// scanVenue looks for a drink group in the name, then in the category texts.
func (c *OfferingClassifier) scanVenue(v domain.Venue) string {
	if l := c.index.firstGroup(v.Name); l != "" {
		return l
	}
	for _, cat := range v.Categories {
		if l := c.index.firstGroup(cat.Title + " " + cat.Alias); l != "" {
			return l
		}
	}
	return ""
}

func (c *OfferingClassifier) fromCached(v domain.Venue) string {
	if l := c.scanVenue(v); l != "" {
		return l
	}
	for _, cat := range v.Categories {
		t := categoryText(cat)
		if strings.Contains(t, "espresso") || strings.Contains(t, "coffee") {
			return "House Espresso"
		}
	}
	return ""
}

func (c *OfferingClassifier) fromDetail(v domain.Venue) string {
	if l := c.scanVenue(v); l != "" {
		return l
	}
	coffee := false
	for _, cat := range v.Categories {
		t := categoryText(cat)
		switch {
		case strings.Contains(t, "espresso"):
			return "House Espresso"
		case strings.Contains(t, "pour over"), strings.Contains(t, "drip"):
			return "Pour Over Coffee"
		}
		if strings.Contains(t, "coffee") {
			coffee = true
		}
	}
	if coffee {
		return "House Blend Coffee"
	}
	return ""
}

func (c *OfferingClassifier) fromReviews(ctx context.Context, id string) string {
	if id == "" || c.reviews == nil {
		return ""
	}
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	rs, err := c.reviews.FetchReviews(cctx, id)
	if err != nil {
		log.Debug().Str("component", "classifier").Str("id", id).Err(err).Msg("review fetch failed")
		return ""
	}
	return c.mineReviews(rs)
}

func (c *OfferingClassifier) mineReviews(rs []domain.ReviewText) string {
	texts := make([]string, 0, len(rs))
	for _, r := range rs {
		texts = append(texts, r.Text)
	}
	return c.index.mostMentioned(strings.Join(texts, " "))
}

func (c *OfferingClassifier) fromName(name string) string {
	if l := c.index.firstGroup(name); l != "" {
		return l
	}
	low := strings.ToLower(name)
	for _, h := range nameHeuristics {
		for _, s := range h.any {
			if strings.Contains(low, s) {
				return h.label
			}
		}
	}
	return ""
}

func (c *OfferingClassifier) creative() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return creativeLabels[c.rnd.Intn(len(creativeLabels))]
}

func categoryText(cat domain.Category) string {
	return strings.ToLower(cat.Title + " " + cat.Alias)
}

// guard turns a panicking strategy into "found nothing".
func guard(fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("component", "classifier").Interface("panic", r).Msg("strategy recovered")
			out = ""
		}
	}()
	return fn()
}
