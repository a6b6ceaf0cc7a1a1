package geo

import (
	"math"

	"coffee_finder/internal/domain"
)

const (
	earthRadiusMiles = 3956.0
	metersPerMile    = 1609
	// the directory rejects radii above 40km
	maxDirectoryRadiusMeters = 40000
)

// DistanceMiles is the Haversine great-circle distance between a and b.
func DistanceMiles(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// MilesToMeters converts a search radius for the directory, clamped to what it accepts.
func MilesToMeters(miles float64) int {
	m := int(miles * metersPerMile)
	if m > maxDirectoryRadiusMeters {
		return maxDirectoryRadiusMeters
	}
	if m < 0 {
		return 0
	}
	return m
}
