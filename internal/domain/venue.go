package domain

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Venue is a coffee venue as seen by the ranking pipeline. A candidate straight from the
// directory has the derived fields (DistanceMiles, SignatureOffering, Summary) unset.
type Venue struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	ZipCode     string     `json:"zip_code"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	Price       string     `json:"price,omitempty"` // "$".."$$$$" or "" when unknown
	Categories  []Category `json:"categories,omitempty"`
	Description string     `json:"description,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Website     string     `json:"website,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Hours       string     `json:"hours,omitempty"`

	// derived
	DistanceMiles     *float64 `json:"distance_miles,omitempty"`
	SignatureOffering string   `json:"signature_offering,omitempty"`
	Summary           string   `json:"summary,omitempty"`
	Highlights        string   `json:"highlights,omitempty"`
}

// Coords returns the venue position, or false when the source had no coordinates.
func (v Venue) Coords() (Coordinates, bool) {
	if v.Lat == nil || v.Lng == nil {
		return Coordinates{}, false
	}
	return Coordinates{Lat: *v.Lat, Lng: *v.Lng}, true
}

func (v Venue) CategoryAliases() []string {
	out := make([]string, 0, len(v.Categories))
	for _, c := range v.Categories {
		out = append(out, c.Alias)
	}
	return out
}

type ReviewText struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
	Author string  `json:"author,omitempty"`
}

// SearchQuery is what the directory collaborator is asked for.
type SearchQuery struct {
	Origin       Coordinates
	RadiusMeters int
	Categories   string
	Term         string
	Limit        int
	SortBy       string
}

// StoreStats summarises the demo record store.
type StoreStats struct {
	TotalShops int            `json:"total_shops"`
	AvgRating  float64        `json:"avg_rating"`
	TopRated   []Venue        `json:"top_rated"`
	ByCity     map[string]int `json:"shops_by_city"`
	ByState    map[string]int `json:"shops_by_state"`
}
