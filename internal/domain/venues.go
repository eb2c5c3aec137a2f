package domain

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// VenueStats counts venue resolutions by geo source.
type VenueStats struct {
	Labels   int
	BySource map[string]int
}

// MatchRate is the share of venues placed by any strategy, in percent.
func (s VenueStats) MatchRate() float64 {
	if s.Labels == 0 {
		return 0
	}
	return 100 * float64(s.Labels-s.BySource[GeoSourceUnmatched]) / float64(s.Labels)
}

// VenueBuilder turns raw venue labels into the venue table.
type VenueBuilder struct {
	extractor     *VenueExtractor
	matcher       *GeoMatcher
	geocoder      Geocoder
	aliases       map[string]string
	proxies       map[string]string
	minConfidence int
	logger        *slog.Logger
}

// NewVenueBuilder wires the extractor and matcher. geocoder may be nil.
func NewVenueBuilder(gazetteer []GazetteerCity, t Tables, minConfidence int, geocoder Geocoder, logger *slog.Logger) *VenueBuilder {
	return &VenueBuilder{
		extractor:     NewVenueExtractor(t),
		matcher:       NewGeoMatcher(gazetteer, t, minConfidence),
		geocoder:      geocoder,
		aliases:       aliasIndex(t.CityAliases),
		proxies:       aliasIndex(t.WeatherProxies),
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// Build resolves every distinct label. Labels are deduplicated on their
// trimmed raw text and keyed in sorted order.
func (b *VenueBuilder) Build(ctx context.Context, labels []string) ([]Venue, VenueStats) {
	seen := make(map[string]struct{}, len(labels))
	distinct := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		distinct = append(distinct, l)
	}
	sort.Strings(distinct)

	stats := VenueStats{Labels: len(distinct), BySource: make(map[string]int)}
	venues := make([]Venue, 0, len(distinct))
	for i, label := range distinct {
		v := b.Resolve(ctx, label)
		v.Key = int64(i + 1)
		stats.BySource[v.GeoSource]++
		venues = append(venues, v)
	}
	return venues, stats
}

// Resolve extracts, matches and annotates a single label. The returned venue
// has no key.
func (b *VenueBuilder) Resolve(ctx context.Context, label string) Venue {
	loc := b.extractor.Extract(label)
	v := Venue{
		RawName:     strings.TrimSpace(label),
		CleanName:   CleanVenueName(label),
		City:        TitleCase(loc.City),
		Country:     b.extractor.CountryName(loc.CountryIOC),
		CountryCode: loc.CountryCode,
		GeoSource:   GeoSourceUnmatched,
		Confidence:  loc.Confidence,
	}

	if match, ok := b.matcher.Match(loc); ok {
		v.City = TitleCase(match.City)
		v.Latitude = match.Latitude
		v.Longitude = match.Longitude
		v.Altitude = match.Altitude
		v.GeoSource = match.Source
		if v.Country == Unknown && len(NormalizePlace(match.Country)) > 2 {
			v.Country = TitleCase(match.Country)
		}
	}

	v.AltitudeCategory = AltitudeCategory(v.Altitude)
	v.ClimateZone = ClimateZone(v.Latitude)
	v.QualityScore = VenueQuality(v.Latitude, v.Altitude)
	v = EnrichWithGeocoding(ctx, v, b.geocoder, b.minConfidence, b.logger)

	v.weatherCity = b.WeatherCity(v.City)
	return v
}

// WeatherCity is the standardized city a venue reads temperatures from,
// after the proxy table for cities without a station.
func (b *VenueBuilder) WeatherCity(city string) string {
	std := StandardizeCity(city, b.aliases)
	if proxy, ok := b.proxies[std]; ok {
		return proxy
	}
	return std
}
