package domain

import (
	"math"
	"strings"
)

// Geo sources recorded on each venue.
const (
	GeoSourceExact     = "gazetteer_exact"
	GeoSourceCityOnly  = "gazetteer_city"
	GeoSourceGeocoder  = "geocoder"
	GeoSourceUnmatched = "unmatched"
)

// Venue quality tiers.
const (
	QualityHigh   = 9 // latitude and altitude
	QualityMedium = 7 // latitude only
	QualityLow    = 5
)

// GeoMatch is the gazetteer row chosen for a venue.
type GeoMatch struct {
	City      string
	Country   string
	Latitude  *float64
	Longitude *float64
	Altitude  *float64
	Source    string
}

type cityCountry struct {
	city    string
	country string
}

// GeoMatcher joins extracted venue locations against the gazetteer.
type GeoMatcher struct {
	exact         map[cityCountry]GazetteerCity
	byCity        map[string]GazetteerCity
	aliases       map[string]string
	nameToISO     map[string]string
	minConfidence int
}

// NewGeoMatcher indexes the gazetteer. Both indexes keep the first row seen
// for a key so the input order decides ties.
func NewGeoMatcher(gazetteer []GazetteerCity, t Tables, minConfidence int) *GeoMatcher {
	m := &GeoMatcher{
		exact:         make(map[cityCountry]GazetteerCity, len(gazetteer)),
		byCity:        make(map[string]GazetteerCity, len(gazetteer)),
		aliases:       aliasIndex(t.CityAliases),
		nameToISO:     make(map[string]string, len(t.Countries)),
		minConfidence: minConfidence,
	}
	for _, c := range t.Countries {
		m.nameToISO[NormalizePlace(c.Name)] = strings.ToUpper(c.ISO2)
	}
	for _, row := range gazetteer {
		city := StandardizeCity(row.City, m.aliases)
		if city == UnknownName {
			continue
		}
		key := cityCountry{city: city, country: m.countryKey(row.Country)}
		if _, ok := m.exact[key]; !ok {
			m.exact[key] = row
		}
		if _, ok := m.byCity[city]; !ok {
			m.byCity[city] = row
		}
	}
	return m
}

// countryKey reduces a gazetteer country (code or name) to a two-letter code
// when possible.
func (m *GeoMatcher) countryKey(country string) string {
	key := NormalizePlace(country)
	if len(key) == 2 {
		return key
	}
	if iso, ok := m.nameToISO[key]; ok {
		return iso
	}
	return key
}

// Match returns the gazetteer row for a location. The city-only fallback is
// only attempted for confident extractions.
func (m *GeoMatcher) Match(loc VenueLocation) (GeoMatch, bool) {
	city := StandardizeCity(loc.City, m.aliases)
	if city == UnknownName {
		return GeoMatch{}, false
	}
	if row, ok := m.exact[cityCountry{city: city, country: strings.ToUpper(loc.CountryCode)}]; ok {
		return toGeoMatch(row, GeoSourceExact), true
	}
	if loc.Confidence < m.minConfidence {
		return GeoMatch{}, false
	}
	if row, ok := m.byCity[city]; ok {
		return toGeoMatch(row, GeoSourceCityOnly), true
	}
	return GeoMatch{}, false
}

func toGeoMatch(row GazetteerCity, source string) GeoMatch {
	return GeoMatch{
		City:      row.City,
		Country:   row.Country,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
		Altitude:  row.Altitude,
		Source:    source,
	}
}

// VenueQuality ranks how complete a venue's geography is.
func VenueQuality(lat, altitude *float64) int {
	switch {
	case lat != nil && altitude != nil:
		return QualityHigh
	case lat != nil:
		return QualityMedium
	default:
		return QualityLow
	}
}

// ClimateZone derives a coarse zone from the absolute latitude.
func ClimateZone(lat *float64) string {
	if lat == nil {
		return Unknown
	}
	abs := math.Abs(*lat)
	switch {
	case abs < 23.5:
		return "Tropical"
	case abs < 40:
		return "Subtropical"
	case abs < 60:
		return "Temperate"
	default:
		return "Polar"
	}
}

// AltitudeCategory buckets a venue altitude in metres.
func AltitudeCategory(altitude *float64) string {
	if altitude == nil || *altitude <= 0 {
		return Unknown
	}
	switch {
	case *altitude > 1500:
		return "High"
	case *altitude > 500:
		return "Moderate"
	default:
		return "Sea Level"
	}
}
