package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"coffee_finder/internal/domain"
)

const (
	maxSummaryRunes = 200
	ellipsis        = "…"
)

// clauseRule emits phrase when any of the cue words occurs in the scanned text.
type clauseRule struct {
	cues   []string
	phrase string
}

// first match wins within each table
var (
	nameArchetypes = []clauseRule{
		{[]string{"roast", "roastery", "roaster"}, "specializes in artisanal coffee roasting"},
		{[]string{"cafe", "café"}, "offers a cozy cafe experience"},
		{[]string{"specialty", "speciality", "artisan", "premium"}, "focuses on specialty coffee drinks"},
		{[]string{"brew"}, "features craft brewing methods"},
		{[]string{"coffee"}, "serves quality coffee and beverages"},
	}
	atmosphereCues = []clauseRule{
		{[]string{"cozy", "welcoming", "friendly"}, "its welcoming atmosphere"},
		{[]string{"modern", "industrial"}, "its modern setting"},
		{[]string{"rustic", "charming"}, "its charming ambiance"},
	}
	activityCues = []clauseRule{
		{[]string{"wifi", "laptop", "work"}, "being a great spot for work"},
		{[]string{"meeting", "social", "hangout"}, "being a popular gathering spot"},
	}
	foodCues = []clauseRule{
		{[]string{"pastry", "baked", "dessert"}, "fresh pastries"},
		{[]string{"sandwich", "breakfast", "lunch"}, "light meals"},
		{[]string{"smoothie", "juice", "tea"}, "refreshing beverages"},
	}
)

const defaultArchetype = "provides excellent coffee and drinks"

// review theme groups: a theme is reported when at least min of its words appear
var reviewThemes = []struct {
	words []string
	min   int
	theme string
}{
	{[]string{"amazing", "delicious", "best", "great", "excellent", "outstanding"}, 3, "exceptional coffee quality"},
	{[]string{"friendly", "helpful", "knowledgeable", "attentive"}, 2, "excellent service"},
	{[]string{"cozy", "welcoming", "relaxing", "beautiful"}, 2, "great atmosphere"},
	{[]string{"worth", "reasonable", "fair", "good value"}, 2, "good value"},
}

// SummaryGenerator writes a short description from rating, popularity, price and
// keyword cues in the name/description.
type SummaryGenerator struct{}

func NewSummaryGenerator() SummaryGenerator { return SummaryGenerator{} }

// Summarize returns at most 200 characters ending in exactly one period.
func (g SummaryGenerator) Summarize(v domain.Venue) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("component", "summary").Str("id", v.ID).Interface("panic", r).Msg("summary fallback")
			out = fallbackSummary(v)
		}
	}()

	rating := formatRating(v.Rating)

	var lead string
	switch {
	case v.Rating >= 4.5:
		lead = "Highly rated with " + rating + " stars"
	case v.Rating >= 4.0:
		lead = "Well-rated with " + rating + " stars"
	default:
		lead = "Rated " + rating + " stars"
	}
	switch {
	case v.ReviewCount >= 200:
		lead += " and a large following"
	case v.ReviewCount >= 100:
		lead += " with many positive reviews"
	}

	opener := "This coffee shop"
	switch v.Price {
	case "$$$":
		opener = "This premium coffee shop"
	case "$$":
		opener = "This mid-range coffee shop"
	}

	name := strings.ToLower(v.Name)
	archetype := firstClause(name, nameArchetypes)
	if archetype == "" {
		archetype = defaultArchetype
	}

	sentences := []string{lead, opener + " " + archetype}

	text := name + " " + strings.ToLower(v.Description)
	if notes := joinNonEmpty(" and ", firstClause(text, atmosphereCues), firstClause(text, activityCues)); notes != "" {
		sentences = append(sentences, "Known for "+notes)
	}
	if food := firstClause(text, foodCues); food != "" {
		sentences = append(sentences, "Also offers "+food)
	}

	return boundSummary(joinSentences(sentences))
}

// ReviewThemes condenses review text into a one-line praise summary, or "" when no theme
// is strong enough.
func (g SummaryGenerator) ReviewThemes(reviews []domain.ReviewText) string {
	if len(reviews) == 0 {
		return ""
	}
	texts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		texts = append(texts, r.Text)
	}
	all := strings.ToLower(strings.Join(texts, " "))

	var themes []string
	for _, t := range reviewThemes {
		n := 0
		for _, w := range t.words {
			if strings.Contains(all, w) {
				n++
			}
		}
		if n >= t.min {
			themes = append(themes, t.theme)
		}
	}
	if len(themes) == 0 {
		return ""
	}
	return "Customers particularly praise: " + strings.Join(themes, ", ") + "."
}

func firstClause(text string, rules []clauseRule) string {
	for _, r := range rules {
		for _, cue := range r.cues {
			if strings.Contains(text, cue) {
				return r.phrase
			}
		}
	}
	return ""
}

// joinSentences terminates every sentence with a single period.
func joinSentences(sentences []string) string {
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimRight(strings.TrimSpace(s), ".")
		if s == "" {
			continue
		}
		parts = append(parts, s+".")
	}
	out := strings.Join(parts, " ")
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", ".")
	}
	return out
}

// boundSummary cuts s at a word boundary so that s + "…." fits in maxSummaryRunes.
func boundSummary(s string) string {
	if utf8.RuneCountInString(s) <= maxSummaryRunes {
		return s
	}
	budget := maxSummaryRunes - utf8.RuneCountInString(ellipsis) - 1
	r := []rune(s)[:budget]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	cut = strings.TrimRight(cut, " .,;:")
	return cut + ellipsis + "."
}

// formatRating prints whole ratings with one decimal ("4.0") and others as-is ("4.8").
func formatRating(r float64) string {
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 1, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func fallbackSummary(v domain.Venue) string {
	return fmt.Sprintf("A coffee shop with a %s star rating based on %d reviews.", formatRating(v.Rating), v.ReviewCount)
}
