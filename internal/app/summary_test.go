package app

import (
	"strings"
	"testing"
	"unicode/utf8"

	"coffee_finder/internal/domain"
)

func assertSummaryShape(t *testing.T, s string) {
	t.Helper()
	if n := utf8.RuneCountInString(s); n > maxSummaryRunes {
		t.Fatalf("summary too long (%d): %q", n, s)
	}
	if !strings.HasSuffix(s, ".") || strings.HasSuffix(s, "..") {
		t.Fatalf("summary must end with exactly one period: %q", s)
	}
	if strings.Contains(s, "..") {
		t.Fatalf("summary contains \"..\": %q", s)
	}
}

func TestSummarize_IslandVintage(t *testing.T) {
	got := NewSummaryGenerator().Summarize(domain.Venue{
		Name: "Island Vintage Coffee", Rating: 4.8, ReviewCount: 250, Price: "$$",
	})
	want := "Highly rated with 4.8 stars and a large following. This mid-range coffee shop serves quality coffee and beverages."
	if got != want {
		t.Fatalf("unexpected summary:\n got %q\nwant %q", got, want)
	}
}

func TestSummarize_Clauses(t *testing.T) {
	got := NewSummaryGenerator().Summarize(domain.Venue{
		Name:        "Manoa Roastery",
		Rating:      4.0,
		ReviewCount: 120,
		Price:       "$$$",
		Description: "Cozy spot with wifi.",
	})
	want := "Well-rated with 4.0 stars with many positive reviews. " +
		"This premium coffee shop specializes in artisanal coffee roasting. " +
		"Known for its welcoming atmosphere and being a great spot for work."
	if got != want {
		t.Fatalf("unexpected summary:\n got %q\nwant %q", got, want)
	}
	assertSummaryShape(t, got)
}

func TestSummarize_FoodClause(t *testing.T) {
	got := NewSummaryGenerator().Summarize(domain.Venue{
		Name: "Kaimuki Cafe", Rating: 4.3, ReviewCount: 12, Description: "Fresh pastry daily",
	})
	want := "Well-rated with 4.3 stars. This coffee shop offers a cozy cafe experience. Also offers fresh pastries."
	if got != want {
		t.Fatalf("unexpected summary:\n got %q\nwant %q", got, want)
	}
}

func TestSummarize_AlwaysBounded(t *testing.T) {
	long := strings.Repeat("cozy modern rustic wifi meeting pastry sandwich tea ", 20)
	venues := []domain.Venue{
		{},
		{Name: "...", Description: "...."},
		{Name: "Cafe.", Rating: 3.2, ReviewCount: 3},
		{Name: strings.Repeat("Roast ", 60), Rating: 4.9, ReviewCount: 9999, Price: "$$", Description: long},
		{Name: "Brew", Description: strings.Repeat("x", 500)},
		{Name: strings.Repeat("Kōpe ", 80), Rating: 4.25, ReviewCount: 101},
	}
	g := NewSummaryGenerator()
	for _, v := range venues {
		assertSummaryShape(t, g.Summarize(v))
	}
}

func TestBoundSummary_TruncatesAtWordBoundary(t *testing.T) {
	in := strings.Repeat("word ", 60) + "end."
	got := boundSummary(in)
	assertSummaryShape(t, got)
	if !strings.HasSuffix(got, ellipsis+".") {
		t.Fatalf("expected ellipsis before final period: %q", got)
	}
	if strings.Contains(got, "wor"+ellipsis) {
		t.Fatalf("cut inside a word: %q", got)
	}
}

func TestJoinSentences_SinglePeriods(t *testing.T) {
	got := joinSentences([]string{"One..", "Two.", " ", "Three"})
	if got != "One. Two. Three." {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormatRating(t *testing.T) {
	cases := map[float64]string{4.0: "4.0", 4.8: "4.8", 4.75: "4.75", 5: "5.0"}
	for in, want := range cases {
		if got := formatRating(in); got != want {
			t.Fatalf("formatRating(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestReviewThemes(t *testing.T) {
	g := NewSummaryGenerator()
	if got := g.ReviewThemes(nil); got != "" {
		t.Fatalf("expected empty for no reviews, got %q", got)
	}
	got := g.ReviewThemes([]domain.ReviewText{
		{Text: "Amazing and delicious, the best pour over."},
		{Text: "Staff were friendly and helpful."},
	})
	want := "Customers particularly praise: exceptional coffee quality, excellent service."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := g.ReviewThemes([]domain.ReviewText{{Text: "It was fine."}}); got != "" {
		t.Fatalf("weak reviews should yield no themes, got %q", got)
	}
}
