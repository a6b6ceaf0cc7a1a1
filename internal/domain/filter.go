package domain

// FilterConfig drives QualityFilter. Treat it as a value: copy, don't share-and-mutate.
type FilterConfig struct {
	MinRating          float64
	MinReviewCount     int
	AllowedPriceTiers  []string
	ExcludedCategories []string
	RequiredCategories []string
	// StrongCategories is the coffee-specific subset of RequiredCategories.
	StrongCategories []string
	NameKeywords     []string
	ResultCap        int
}

const DefaultResultCap = 20

// DefaultFilterConfig returns a fresh copy of the process-wide defaults.
// Thresholds are empirically tuned, not derived.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinRating:         3.5,
		MinReviewCount:    10,
		AllowedPriceTiers: []string{"$", "$$", "$$$"},
		ExcludedCategories: []string{
			"bars", "nightlife", "convenience", "grocery",
			"servicestations", "fastfood", "hotels", "breweries",
		},
		RequiredCategories: []string{
			"coffee", "coffeeroasteries", "coffee_roasteries", "cafes", "coffeeshops",
			"cafeteria", "bubbletea", "tea", "bakeries", "desserts", "juicebars",
		},
		StrongCategories: []string{"coffee", "coffeeroasteries", "coffee_roasteries", "coffeeshops"},
		NameKeywords: []string{
			"coffee", "cafe", "café", "espresso", "roast", "brew", "bean", "java", "latte", "kope",
		},
		ResultCap: DefaultResultCap,
	}
}

func (c FilterConfig) WithMinRating(r float64) FilterConfig {
	c.MinRating = r
	return c
}

func (c FilterConfig) WithMinReviewCount(n int) FilterConfig {
	c.MinReviewCount = n
	return c
}

func (c FilterConfig) WithResultCap(n int) FilterConfig {
	c.ResultCap = n
	return c
}
