package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"coffee_finder/internal/domain"
)

/********** alias registries (single source of truth) **********/

var venueAliases = map[string][]string{
	"id":          {"id", "business_id", "alias"},
	"name":        {"name", "business_name"},
	"address1":    {"location.address1", "address1", "address"},
	"city":        {"location.city", "city"},
	"state":       {"location.state", "state"},
	"zip":         {"location.zip_code", "zip_code", "postal_code"},
	"phone":       {"display_phone", "phone"},
	"website":     {"url", "website"},
	"image":       {"image_url", "photo"},
	"price":       {"price", "price_level"},
	"description": {"description", "categories.0.title"},
}

var reviewAliases = map[string][]string{
	"text":   {"text", "review_text", "comment", "content"},
	"author": {"user.name", "author", "user_name"},
	"rating": {"rating", "score"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps; numeric parts index into slices.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, sep)
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return int(v)
		case int:
			return v
		case int64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

/********** venue mapper **********/

func mapVenue(p map[string]any, now time.Time) domain.Venue {
	v := domain.Venue{
		ID:          firstNonEmptyAlias(p, venueAliases, "id"),
		Name:        firstNonEmptyAlias(p, venueAliases, "name"),
		Lat:         getFloatFlexible(p, "coordinates.latitude", "latitude", "lat"),
		Lng:         getFloatFlexible(p, "coordinates.longitude", "longitude", "lng", "lon"),
		City:        firstNonEmptyAlias(p, venueAliases, "city"),
		State:       firstNonEmptyAlias(p, venueAliases, "state"),
		ZipCode:     firstNonEmptyAlias(p, venueAliases, "zip"),
		ReviewCount: firstIntFlexible(p, "review_count", "reviews_count"),
		Price:       normalizePrice(firstNonEmptyAlias(p, venueAliases, "price")),
		Categories:  mapCategories(p),
		Phone:       firstNonEmptyAlias(p, venueAliases, "phone"),
		Website:     firstNonEmptyAlias(p, venueAliases, "website"),
		ImageURL:    firstNonEmptyAlias(p, venueAliases, "image"),
		Hours:       formatHours(p, now),
	}
	if r := getFloatFlexible(p, "rating"); r != nil {
		v.Rating = *r
	}
	v.Address = composeAddress(p, v)
	v.Description = firstNonEmptyAlias(p, venueAliases, "description")
	if v.Description == "" {
		v.Description = "Coffee Shop"
	}
	return v
}

func mapCategories(p map[string]any) []domain.Category {
	raw, ok := lookupAny(p, "categories").([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Category, 0, len(raw))
	for _, it := range raw {
		switch t := it.(type) {
		case map[string]any:
			c := domain.Category{Alias: lookupStr(t, "alias"), Title: lookupStr(t, "title")}
			if c.Alias == "" && c.Title == "" {
				continue
			}
			out = append(out, c)
		case string:
			if t != "" {
				out = append(out, domain.Category{Alias: t, Title: t})
			}
		}
	}
	return out
}

// composeAddress prefers "address1, city, state zip"; falls back to display_address lines.
func composeAddress(p map[string]any, v domain.Venue) string {
	street := firstNonEmptyAlias(p, venueAliases, "address1")
	if street != "" {
		return joinNonEmpty(", ", street, v.City, joinNonEmpty(" ", v.State, v.ZipCode))
	}
	if lines, ok := lookupAny(p, "location.display_address").([]any); ok {
		parts := make([]string, 0, len(lines))
		for _, l := range lines {
			if s, ok := l.(string); ok {
				parts = append(parts, s)
			}
		}
		return joinNonEmpty(", ", parts...)
	}
	return joinNonEmpty(", ", v.City, joinNonEmpty(" ", v.State, v.ZipCode))
}

func normalizePrice(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 4 {
		return strings.Repeat("$", n)
	}
	if strings.Trim(s, "$") == "" && len(s) <= 4 {
		return s
	}
	return ""
}

// formatHours renders today's opening window from hours[0].open (day 0 = Monday).
func formatHours(p map[string]any, now time.Time) string {
	const unavailable = "Hours not available"
	open, ok := lookupAny(p, "hours.0.open").([]any)
	if !ok || len(open) == 0 {
		return unavailable
	}
	today := (int(now.Weekday()) + 6) % 7
	for _, it := range open {
		day, ok := it.(map[string]any)
		if !ok || firstIntFlexible(day, "day") != today {
			continue
		}
		start, end := lookupStr(day, "start"), lookupStr(day, "end")
		if len(start) == 4 && len(end) == 4 {
			return fmt.Sprintf("%s:%s - %s:%s", start[:2], start[2:], end[:2], end[2:])
		}
	}
	return unavailable
}

/********** reviews mapper **********/

func mapReviews(in []map[string]any) []domain.ReviewText {
	out := make([]domain.ReviewText, 0, len(in))
	for _, r := range in {
		text := firstNonEmptyAlias(r, reviewAliases, "text")
		if text == "" {
			continue
		}
		rv := domain.ReviewText{
			Text:   text,
			Author: firstNonEmptyAlias(r, reviewAliases, "author"),
		}
		if f := getFloatFlexible(r, reviewAliases["rating"]...); f != nil {
			rv.Rating = *f
		}
		out = append(out, rv)
	}
	return out
}
