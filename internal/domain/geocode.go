package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding places an unmatched venue through the geocoder. Only
// confident extractions are sent; on error or an empty answer the venue is
// returned unchanged.
func EnrichWithGeocoding(ctx context.Context, venue Venue, geocoder Geocoder, minConfidence int, logger *slog.Logger) Venue {
	if geocoder == nil || venue.GeoSource != GeoSourceUnmatched {
		return venue
	}
	if venue.City == Unknown || venue.Confidence < minConfidence {
		return venue
	}

	result, err := geocoder.ForwardGeocode(ctx, venue.City, venue.CountryCode)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"venue", venue.RawName,
			"city", venue.City,
			"country_code", venue.CountryCode,
			"error", err,
		)
		return venue
	}
	if result.Lat == 0 && result.Lon == 0 {
		return venue
	}

	lat, lon := result.Lat, result.Lon
	venue.Latitude = &lat
	venue.Longitude = &lon
	venue.GeoSource = GeoSourceGeocoder
	venue.ClimateZone = ClimateZone(venue.Latitude)
	venue.QualityScore = VenueQuality(venue.Latitude, venue.Altitude)
	return venue
}
