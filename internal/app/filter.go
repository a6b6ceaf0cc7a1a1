package app

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"coffee_finder/internal/adapters/observability"
	"coffee_finder/internal/domain"
	"coffee_finder/internal/geo"
)

// last-chance admission for venues with neither a coffee name nor a coffee category
const (
	lastChanceMinRating  = 4.5
	lastChanceMinReviews = 150
)

// admission rule names, also used as metric labels
const (
	ruleMinReviews       = "min_reviews"
	ruleMinRating        = "min_rating"
	ruleRadius           = "radius"
	rulePrice            = "price"
	ruleExcludedCategory = "excluded_category"
	ruleRequiredCategory = "required_category"
	ruleRelevance        = "relevance"
)

// QualityFilter admits candidates through ordered, short-circuiting rules, then sorts by
// (rating desc, reviewCount desc) and caps the result. It trades recall for precision.
type QualityFilter struct{}

func NewQualityFilter() *QualityFilter { return &QualityFilter{} }

// Apply never mutates candidates; survivors are copies with DistanceMiles set when an
// origin and venue coordinates are both known.
func (f *QualityFilter) Apply(candidates []domain.Venue, origin *domain.Coordinates, radiusMiles float64, cfg domain.FilterConfig) []domain.Venue {
	rel := newRelevance(cfg.NameKeywords)
	allowedPrice := toSet(cfg.AllowedPriceTiers)
	excluded := toSet(cfg.ExcludedCategories)
	required := toSet(cfg.RequiredCategories)
	strong := toSet(cfg.StrongCategories)

	out := make([]domain.Venue, 0, len(candidates))
	for _, v := range candidates {
		if rule := admit(&v, origin, radiusMiles, cfg, rel, allowedPrice, excluded, required, strong); rule != "" {
			observability.ObserveRejection(rule)
			continue
		}
		out = append(out, v)
	}

	SortVenues(out)
	return capVenues(out, cfg.ResultCap)
}

// admit returns the name of the first failing rule, or "" when v is admitted.
func admit(v *domain.Venue, origin *domain.Coordinates, radiusMiles float64, cfg domain.FilterConfig,
	rel *relevance, allowedPrice, excluded, required, strong map[string]struct{}) string {
	if v.ReviewCount < cfg.MinReviewCount {
		return ruleMinReviews
	}
	if v.Rating < cfg.MinRating {
		return ruleMinRating
	}
	if origin != nil {
		// no coordinates is not disqualifying here
		if at, ok := v.Coords(); ok {
			d := geo.DistanceMiles(*origin, at)
			if d > radiusMiles {
				return ruleRadius
			}
			v.DistanceMiles = &d
		}
	}
	if v.Price != "" {
		if _, ok := allowedPrice[v.Price]; !ok {
			return rulePrice
		}
	}
	aliases := v.CategoryAliases()
	if intersects(aliases, excluded) {
		return ruleExcludedCategory
	}
	if !intersects(aliases, required) {
		return ruleRequiredCategory
	}
	if rel.nameMatches(v.Name) || intersects(aliases, strong) {
		return ""
	}
	if v.Rating >= lastChanceMinRating && v.ReviewCount >= lastChanceMinReviews {
		return ""
	}
	return ruleRelevance
}

// SortVenues orders by rating desc, then review count desc; equal venues keep input order.
func SortVenues(vs []domain.Venue) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Rating != vs[j].Rating {
			return vs[i].Rating > vs[j].Rating
		}
		return vs[i].ReviewCount > vs[j].ReviewCount
	})
}

func capVenues(vs []domain.Venue, limit int) []domain.Venue {
	if limit <= 0 {
		limit = domain.DefaultResultCap
	}
	if len(vs) > limit {
		return vs[:limit]
	}
	return vs
}

// relevance matches venue names against the keyword allow-list.
type relevance struct {
	keywords []string
	patterns []*regexp.Regexp
}

func newRelevance(keywords []string) *relevance {
	r := &relevance{}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		r.keywords = append(r.keywords, kw)
		r.patterns = append(r.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(foldAccents(kw))+`s?\b`))
	}
	return r
}

func (r *relevance) nameMatches(name string) bool {
	low := strings.ToLower(name)
	folded := foldAccents(low)
	for _, kw := range r.keywords {
		if strings.Contains(low, kw) || strings.Contains(folded, foldAccents(kw)) {
			return true
		}
	}
	for _, re := range r.patterns {
		if re.MatchString(folded) {
			return true
		}
	}
	return false
}

// foldAccents strips combining marks so "Café" compares equal to "cafe".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func toSet(xs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		set[strings.ToLower(strings.TrimSpace(x))] = struct{}{}
	}
	return set
}

func intersects(xs []string, set map[string]struct{}) bool {
	for _, x := range xs {
		if _, ok := set[strings.ToLower(x)]; ok {
			return true
		}
	}
	return false
}
