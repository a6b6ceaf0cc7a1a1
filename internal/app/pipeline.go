package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"coffee_finder/internal/adapters/observability"
	"coffee_finder/internal/domain"
	"coffee_finder/internal/geo"
)

const (
	StatusOK                   = "ok"
	StatusGeocodeFailure       = "geocode_failure"
	StatusFetchFailure         = "fetch_failure"
	StatusConfigurationMissing = "configuration_missing"
)

const (
	defaultRadiusMiles = 5.0
	searchCategories   = "coffee,coffeeroasteries,cafes,coffee_roasteries"
	searchTerm         = "coffee"
	searchLimit        = 50
	searchSortBy       = "distance"
)

type FindRequest struct {
	Location    string // free text or ZIP; ignored when Lat/Lng are set
	Lat, Lng    *float64
	RadiusMiles float64
	MinRating   float64
	// Filter overrides the pipeline default for this call.
	Filter *domain.FilterConfig
}

// SearchResult is always usable: a failed step yields an empty Venues with Status (and
// Err) describing why.
type SearchResult struct {
	Venues []domain.Venue      `json:"coffee_shops"`
	Origin *domain.Coordinates `json:"origin,omitempty"`
	Status string              `json:"status"`
	Err    error               `json:"-"`
}

type PipelineDeps struct {
	Resolver   *geo.Resolver
	Directory  *DirectoryService // nil when no API credentials
	Store      domain.RecordStore
	Classifier *OfferingClassifier
	Filter     domain.FilterConfig
	Workers    int
	Timeout    time.Duration
}

// Pipeline is the only entry point the HTTP layer uses:
// resolve -> fetch -> filter -> annotate -> sort -> cap.
type Pipeline struct {
	resolver   *geo.Resolver
	directory  *DirectoryService
	store      domain.RecordStore
	filter     *QualityFilter
	classifier *OfferingClassifier
	summaries  SummaryGenerator
	cfg        domain.FilterConfig
	workers    int
	timeout    time.Duration
}

func NewPipeline(d PipelineDeps) *Pipeline {
	p := &Pipeline{
		resolver:   d.Resolver,
		directory:  d.Directory,
		store:      d.Store,
		filter:     NewQualityFilter(),
		classifier: d.Classifier,
		summaries:  NewSummaryGenerator(),
		cfg:        d.Filter,
		workers:    d.Workers,
		timeout:    d.Timeout,
	}
	if p.classifier == nil {
		var df domain.DetailFetcher
		var rf domain.ReviewFetcher
		if d.Directory != nil {
			df, rf = d.Directory, d.Directory
		}
		p.classifier = NewOfferingClassifier(df, rf, WithFetchTimeout(d.Timeout))
	}
	if p.workers <= 0 {
		p.workers = 4
	}
	if p.timeout <= 0 {
		p.timeout = 10 * time.Second
	}
	if p.cfg.ResultCap <= 0 {
		p.cfg.ResultCap = domain.DefaultResultCap
	}
	return p
}

func (p *Pipeline) Find(ctx context.Context, req FindRequest) SearchResult {
	res := p.find(ctx, req)
	if res.Venues == nil {
		res.Venues = []domain.Venue{}
	}
	observability.ObserveOutcome(res.Status)
	ev := log.Info()
	if res.Err != nil {
		ev = log.Warn().Err(res.Err)
	}
	ev.Str("component", "pipeline").
		Str("location", req.Location).
		Str("status", res.Status).
		Int("results", len(res.Venues)).
		Msg("find")
	return res
}

func (p *Pipeline) find(ctx context.Context, req FindRequest) SearchResult {
	radius := req.RadiusMiles
	if radius <= 0 {
		radius = defaultRadiusMiles
	}
	cfg := p.cfg
	if req.Filter != nil {
		cfg = *req.Filter
	}
	if req.MinRating > cfg.MinRating {
		cfg = cfg.WithMinRating(req.MinRating)
	}

	origin, located := p.origin(ctx, req)

	if p.directory == nil {
		return p.findInStore(ctx, req, origin, located, radius, cfg)
	}
	if !located {
		return SearchResult{Status: StatusGeocodeFailure, Err: domain.ErrGeocodeFailure}
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	candidates, err := p.directory.Search(cctx, domain.SearchQuery{
		Origin:       origin,
		RadiusMeters: geo.MilesToMeters(radius),
		Categories:   searchCategories,
		Term:         searchTerm,
		Limit:        searchLimit,
		SortBy:       searchSortBy,
	})
	if err != nil {
		return SearchResult{Origin: &origin, Status: StatusFetchFailure, Err: err}
	}

	return SearchResult{
		Venues: p.rank(ctx, candidates, &origin, radius, cfg),
		Origin: &origin,
		Status: StatusOK,
	}
}

// findInStore is the demo path used when the directory is not configured.
func (p *Pipeline) findInStore(ctx context.Context, req FindRequest, origin domain.Coordinates, located bool, radius float64, cfg domain.FilterConfig) SearchResult {
	if p.store == nil {
		return SearchResult{Status: StatusConfigurationMissing, Err: domain.ErrConfigurationMissing}
	}

	loc := strings.TrimSpace(req.Location)
	var (
		rows []domain.Venue
		err  error
	)
	switch {
	case located:
		rows, err = p.store.GetAll(ctx)
	case geo.IsZipCode(loc):
		rows, err = p.store.Query(ctx, "zip_code", loc)
	case loc != "":
		rows, err = p.store.Query(ctx, "city", loc)
	default:
		rows, err = p.store.GetAll(ctx)
	}
	if err != nil {
		return SearchResult{Status: StatusFetchFailure, Err: errors.Join(domain.ErrFetchFailure, err)}
	}
	if loc != "" && !located && len(rows) == 0 {
		return SearchResult{Status: StatusGeocodeFailure, Err: domain.ErrGeocodeFailure}
	}

	var o *domain.Coordinates
	if located {
		o = &origin
	}
	return SearchResult{Venues: p.rank(ctx, rows, o, radius, cfg), Origin: o, Status: StatusOK}
}

func (p *Pipeline) origin(ctx context.Context, req FindRequest) (domain.Coordinates, bool) {
	if req.Lat != nil && req.Lng != nil {
		return domain.Coordinates{Lat: *req.Lat, Lng: *req.Lng}, true
	}
	if p.resolver == nil || strings.TrimSpace(req.Location) == "" {
		return domain.Coordinates{}, false
	}
	return p.resolver.Resolve(ctx, req.Location)
}

func (p *Pipeline) rank(ctx context.Context, candidates []domain.Venue, origin *domain.Coordinates, radius float64, cfg domain.FilterConfig) []domain.Venue {
	out := p.filter.Apply(candidates, origin, radius, cfg)
	p.annotate(ctx, out)
	SortVenues(out)
	return capVenues(out, cfg.ResultCap)
}

// annotate fills SignatureOffering and Summary with a bounded worker pool. Each worker
// writes only its own slot, so completion order never changes the result.
func (p *Pipeline) annotate(ctx context.Context, vs []domain.Venue) {
	sem := semaphore.NewWeighted(int64(p.workers))
	var wg sync.WaitGroup

	for i := range vs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			// context done: finish inline, fetches will fail fast and fall back
			p.annotateOne(ctx, &vs[i])
			continue
		}
		wg.Add(1)
		go func(v *domain.Venue) {
			defer wg.Done()
			defer sem.Release(1)
			p.annotateOne(ctx, v)
		}(&vs[i])
	}
	wg.Wait()
}

func (p *Pipeline) annotateOne(ctx context.Context, v *domain.Venue) {
	p.annotateWith(ctx, v, func(inline *domain.Venue) string {
		return p.classifier.Classify(ctx, v.ID, v.Name, inline)
	})
}

func (p *Pipeline) annotateWith(ctx context.Context, v *domain.Venue, classify func(inline *domain.Venue) string) {
	if v.SignatureOffering == "" {
		inline := *v
		v.SignatureOffering = classify(&inline)
	}
	if v.Summary == "" {
		v.Summary = p.summaries.Summarize(*v)
	}
}

// FindByID returns one annotated venue, or false when it is unknown or unreachable.
// The detail goes through the classifier cache and reviews are fetched once, serving
// both review mining and Highlights.
func (p *Pipeline) FindByID(ctx context.Context, id string) (*domain.Venue, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}

	v, ok := p.lookup(ctx, id)
	if !ok {
		return nil, false
	}

	if p.directory == nil {
		p.annotateOne(ctx, &v)
		return &v, true
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	rs, err := p.directory.FetchReviews(cctx, id)
	if err != nil {
		log.Debug().Str("component", "pipeline").Str("id", id).Err(err).Msg("reviews unavailable")
		p.annotateOne(ctx, &v)
		return &v, true
	}
	p.annotateWith(ctx, &v, func(inline *domain.Venue) string {
		return p.classifier.ClassifyWithReviews(ctx, v.ID, v.Name, inline, rs)
	})
	v.Highlights = p.summaries.ReviewThemes(rs)
	return &v, true
}

func (p *Pipeline) lookup(ctx context.Context, id string) (domain.Venue, bool) {
	if p.directory != nil {
		if v, ok := p.classifier.Detail(ctx, id); ok {
			return v, true
		}
	}
	if p.store != nil {
		v, err := p.store.GetByID(ctx, id)
		if err == nil {
			return v, true
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Str("component", "pipeline").Str("id", id).Err(err).Msg("store lookup failed")
		}
	}
	return domain.Venue{}, false
}

// Stats exposes the demo store summary; false when no store is configured.
func (p *Pipeline) Stats(ctx context.Context) (domain.StoreStats, bool) {
	if p.store == nil {
		return domain.StoreStats{}, false
	}
	st, err := p.store.Stats(ctx)
	if err != nil {
		log.Warn().Str("component", "pipeline").Err(err).Msg("store stats failed")
		return domain.StoreStats{}, false
	}
	return st, true
}
