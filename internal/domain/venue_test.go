package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueExtractor_Extract(t *testing.T) {
	e := NewVenueExtractor(testTables())

	tests := []struct {
		name       string
		label      string
		city       string
		ioc        string
		code       string
		confidence int
	}{
		{"venue city country", "Olympiastadion, Berlin (GER)", "Berlin", "GER", "DE", ConfidenceStructure},
		{"curated venue", "Stade de France, Paris-St-Denis (FRA)", "Paris", "FRA", "FR", ConfidenceCurated},
		{"curated venue supplies country", "Hayward Field, Eugene, OR", "Eugene", "USA", "US", ConfidenceCurated},
		{"city and state", "Sacramento, CA", "Sacramento", "", UnknownCountryCode, ConfidenceStructure},
		{"trailing state code", "Drake Stadium, Des Moines IA", "Des Moines", "", UnknownCountryCode, ConfidenceStructure},
		{"bare city", "Berlin", "Berlin", "", UnknownCountryCode, ConfidenceBareCity},
		{"bare venue", "Hometown Field", Unknown, "", UnknownCountryCode, ConfidenceUnknown},
		{"unknown country code", "Stadium, Atlantis (ATL)", "Atlantis", "ATL", UnknownCountryCode, ConfidenceStructure},
		{"empty", "", Unknown, "", UnknownCountryCode, ConfidenceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := e.Extract(tt.label)
			assert.Equal(t, tt.city, loc.City)
			assert.Equal(t, tt.ioc, loc.CountryIOC)
			assert.Equal(t, tt.code, loc.CountryCode)
			assert.Equal(t, tt.confidence, loc.Confidence)
		})
	}
}

func TestVenueExtractor_Countries(t *testing.T) {
	e := NewVenueExtractor(testTables())

	assert.Equal(t, "DE", e.CountryCode("ger"))
	assert.Equal(t, UnknownCountryCode, e.CountryCode("XYZ"))
	assert.Equal(t, "Germany", e.CountryName("GER"))
	assert.Equal(t, Unknown, e.CountryName(""))
}

func TestCleanVenueName(t *testing.T) {
	assert.Equal(t, "Olympiastadion, Berlin", CleanVenueName("OLYMPIASTADION, BERLIN (GER)"))
	assert.Equal(t, "Hometown Field", CleanVenueName("hometown field"))
	assert.Equal(t, Unknown, CleanVenueName(""))
}

func TestGeoMatcher_Match(t *testing.T) {
	m := NewGeoMatcher(testGazetteer(), testTables(), 85)

	t.Run("exact by code", func(t *testing.T) {
		got, ok := m.Match(VenueLocation{City: "Berlin", CountryCode: "DE", Confidence: ConfidenceStructure})
		require.True(t, ok)
		assert.Equal(t, GeoSourceExact, got.Source)
		assert.Equal(t, 52.52, *got.Latitude)
	})

	t.Run("exact against country name", func(t *testing.T) {
		got, ok := m.Match(VenueLocation{City: "Paris", CountryCode: "FR", Confidence: ConfidenceCurated})
		require.True(t, ok)
		assert.Equal(t, GeoSourceExact, got.Source)
	})

	t.Run("exact through alias", func(t *testing.T) {
		got, ok := m.Match(VenueLocation{City: "Roma", CountryCode: "IT", Confidence: ConfidenceStructure})
		require.True(t, ok)
		assert.Equal(t, "Rome", got.City)
		assert.Nil(t, got.Altitude)
	})

	t.Run("city only when confident", func(t *testing.T) {
		got, ok := m.Match(VenueLocation{City: "Berlin", CountryCode: UnknownCountryCode, Confidence: ConfidenceStructure})
		require.True(t, ok)
		assert.Equal(t, GeoSourceCityOnly, got.Source)
	})

	t.Run("no city only below threshold", func(t *testing.T) {
		_, ok := m.Match(VenueLocation{City: "Berlin", CountryCode: UnknownCountryCode, Confidence: ConfidenceBareCity})
		assert.False(t, ok)
	})

	t.Run("unknown city", func(t *testing.T) {
		_, ok := m.Match(VenueLocation{City: Unknown, Confidence: ConfidenceCurated})
		assert.False(t, ok)
	})
}

func TestVenueDerivations(t *testing.T) {
	assert.Equal(t, QualityHigh, VenueQuality(ptr(1.0), ptr(10.0)))
	assert.Equal(t, QualityMedium, VenueQuality(ptr(1.0), nil))
	assert.Equal(t, QualityLow, VenueQuality(nil, ptr(10.0)))

	assert.Equal(t, "Tropical", ClimateZone(ptr(19.4)))
	assert.Equal(t, "Subtropical", ClimateZone(ptr(-33.9)))
	assert.Equal(t, "Temperate", ClimateZone(ptr(52.5)))
	assert.Equal(t, "Polar", ClimateZone(ptr(69.6)))
	assert.Equal(t, Unknown, ClimateZone(nil))

	assert.Equal(t, "Sea Level", AltitudeCategory(ptr(34.0)))
	assert.Equal(t, "Moderate", AltitudeCategory(ptr(600.0)))
	assert.Equal(t, "High", AltitudeCategory(ptr(2240.0)))
	assert.Equal(t, Unknown, AltitudeCategory(nil))
}

func TestVenueBuilder_Build(t *testing.T) {
	b := NewVenueBuilder(testGazetteer(), testTables(), 85, nil, discardLogger())

	venues, stats := b.Build(context.Background(), []string{
		"Olympiastadion, Berlin (GER)",
		"Hometown Field",
		" Olympiastadion, Berlin (GER) ",
		"Estadio Olímpico Universitario, Mexico City (MEX)",
		"",
	})

	require.Len(t, venues, 3)
	assert.Equal(t, 3, stats.Labels)
	assert.Equal(t, 2, stats.BySource[GeoSourceExact])
	assert.Equal(t, 1, stats.BySource[GeoSourceUnmatched])
	assert.InDelta(t, 66.67, stats.MatchRate(), 0.01)

	mexico := venues[0]
	assert.Equal(t, int64(1), mexico.Key)
	assert.Equal(t, "Mexico City", mexico.City)
	assert.Equal(t, "Mexico", mexico.Country)
	assert.Equal(t, "MX", mexico.CountryCode)
	assert.Equal(t, "High", mexico.AltitudeCategory)
	assert.Equal(t, "Tropical", mexico.ClimateZone)

	hometown := venues[1]
	assert.Equal(t, int64(2), hometown.Key)
	assert.Equal(t, "Hometown Field", hometown.RawName)
	assert.Equal(t, Unknown, hometown.City)
	assert.Equal(t, GeoSourceUnmatched, hometown.GeoSource)
	assert.Nil(t, hometown.Latitude)
	assert.LessOrEqual(t, hometown.Confidence, ConfidenceBareCity)
	assert.Equal(t, QualityLow, hometown.QualityScore)

	berlin := venues[2]
	assert.Equal(t, "Olympiastadion, Berlin (GER)", berlin.RawName)
	assert.Equal(t, "Berlin", berlin.City)
	assert.Equal(t, "Germany", berlin.Country)
	assert.Equal(t, "DE", berlin.CountryCode)
	assert.Equal(t, "Sea Level", berlin.AltitudeCategory)
	assert.Equal(t, QualityHigh, berlin.QualityScore)
	assert.Equal(t, "BERLIN", berlin.WeatherCity())
}

func TestVenueBuilder_WeatherProxy(t *testing.T) {
	b := NewVenueBuilder(testGazetteer(), testTables(), 85, nil, discardLogger())

	v := b.Resolve(context.Background(), "Cobb Track, Palo Alto (USA)")

	assert.Equal(t, "Palo Alto", v.City)
	assert.Equal(t, "SAN FRANCISCO", v.WeatherCity())
}

func TestVenueBuilder_Geocoder(t *testing.T) {
	t.Run("places unmatched venue", func(t *testing.T) {
		geo := &mockGeocoder{result: GeocodingResult{Lat: 39.8, Lon: -89.65, Confidence: 0.9}}
		b := NewVenueBuilder(testGazetteer(), testTables(), 85, geo, discardLogger())

		v := b.Resolve(context.Background(), "Lanphier Stadium, Springfield (USA)")

		assert.Equal(t, 1, geo.calls)
		assert.Equal(t, GeoSourceGeocoder, v.GeoSource)
		assert.Equal(t, 39.8, *v.Latitude)
		assert.Equal(t, QualityMedium, v.QualityScore)
		assert.Equal(t, "Subtropical", v.ClimateZone)
	})

	t.Run("error keeps venue unmatched", func(t *testing.T) {
		geo := &mockGeocoder{err: errors.New("boom")}
		b := NewVenueBuilder(testGazetteer(), testTables(), 85, geo, discardLogger())

		v := b.Resolve(context.Background(), "Lanphier Stadium, Springfield (USA)")

		assert.Equal(t, 1, geo.calls)
		assert.Equal(t, GeoSourceUnmatched, v.GeoSource)
		assert.Nil(t, v.Latitude)
	})

	t.Run("gazetteer match skips geocoder", func(t *testing.T) {
		geo := &mockGeocoder{result: GeocodingResult{Lat: 1, Lon: 1}}
		b := NewVenueBuilder(testGazetteer(), testTables(), 85, geo, discardLogger())

		v := b.Resolve(context.Background(), "Olympiastadion, Berlin (GER)")

		assert.Equal(t, 0, geo.calls)
		assert.Equal(t, GeoSourceExact, v.GeoSource)
	})

	t.Run("low confidence skips geocoder", func(t *testing.T) {
		geo := &mockGeocoder{result: GeocodingResult{Lat: 1, Lon: 1}}
		b := NewVenueBuilder(testGazetteer(), testTables(), 85, geo, discardLogger())

		v := b.Resolve(context.Background(), "Springfield")

		assert.Equal(t, 0, geo.calls)
		assert.Equal(t, GeoSourceUnmatched, v.GeoSource)
	})

	t.Run("zero coordinates ignored", func(t *testing.T) {
		geo := &mockGeocoder{}
		b := NewVenueBuilder(testGazetteer(), testTables(), 85, geo, discardLogger())

		v := b.Resolve(context.Background(), "Lanphier Stadium, Springfield (USA)")

		assert.Equal(t, GeoSourceUnmatched, v.GeoSource)
	})
}
