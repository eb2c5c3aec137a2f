package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder places venues the gazetteer could not resolve.
type Geocoder interface {
	// ForwardGeocode converts a city and two-letter country code to coordinates.
	ForwardGeocode(ctx context.Context, city, countryCode string) (GeocodingResult, error)
}
