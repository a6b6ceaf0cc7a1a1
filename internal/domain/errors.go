package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrGeocodeFailure: the location text could not be resolved to coordinates.
	ErrGeocodeFailure = errors.New("geocode failure")
	// ErrFetchFailure: an outbound call failed; the affected step degrades to "no data".
	ErrFetchFailure = errors.New("fetch failure")
	// ErrConfigurationMissing: no directory credentials and no demo store.
	ErrConfigurationMissing = errors.New("configuration missing")
)
