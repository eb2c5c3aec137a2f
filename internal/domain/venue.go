package domain

import (
	"regexp"
	"strings"
)

// Extraction confidence tiers, highest first.
const (
	ConfidenceCurated   = 95
	ConfidenceStructure = 85
	ConfidenceBareCity  = 75
	ConfidenceUnknown   = 20
)

// UnknownCountryCode is reported when a venue carries no recognised country.
const UnknownCountryCode = "XX"

var (
	// countrySuffixRe matches the trailing IOC code of labels such as
	// "Olympiastadion, Berlin (GER)".
	countrySuffixRe = regexp.MustCompile(`\(([A-Za-z]{3})\)\s*$`)

	// stateSuffixRe matches a trailing US-style state code: "Des Moines IA".
	stateSuffixRe = regexp.MustCompile(`\s+[A-Z]{2}$`)
	stateOnlyRe   = regexp.MustCompile(`^[A-Z]{2}$`)

	venueKeywordRe = regexp.MustCompile(`(?i)\b(stadium|stadion|stadio|stade|estadio|arena|field|track)\b`)
)

// VenueLocation is the structured guess extracted from a venue label.
type VenueLocation struct {
	City        string
	CountryIOC  string
	CountryCode string
	Confidence  int
}

// VenueExtractor parses free-text venue labels into a city and country.
type VenueExtractor struct {
	curated   []VenueAlias
	countries map[string]Country
}

// NewVenueExtractor indexes the curated venue and country tables.
func NewVenueExtractor(t Tables) *VenueExtractor {
	e := &VenueExtractor{countries: make(map[string]Country, len(t.Countries))}
	for _, c := range t.Countries {
		e.countries[strings.ToUpper(c.IOC)] = c
	}
	for _, v := range t.Venues {
		e.curated = append(e.curated, VenueAlias{
			Match:   NormalizePlace(v.Match),
			City:    v.City,
			Country: strings.ToUpper(v.Country),
		})
	}
	return e
}

// CountryCode translates an IOC code to its two-letter code, or
// UnknownCountryCode when the code is not in the table.
func (e *VenueExtractor) CountryCode(ioc string) string {
	if c, ok := e.countries[strings.ToUpper(strings.TrimSpace(ioc))]; ok {
		return c.ISO2
	}
	return UnknownCountryCode
}

// CountryName returns the English name of an IOC code, or Unknown.
func (e *VenueExtractor) CountryName(ioc string) string {
	if c, ok := e.countries[strings.ToUpper(strings.TrimSpace(ioc))]; ok {
		return c.Name
	}
	return Unknown
}

// Extract applies the rules in order; the first match wins:
//
//  1. curated venue table (substring of the normalized label)
//  2. "Venue, City[, ST] (IOC)" -> second segment
//  3. a single segment without a venue keyword -> the whole label
//  4. Unknown
func (e *VenueExtractor) Extract(label string) VenueLocation {
	raw := collapseSpaces(label)
	body := raw
	var ioc string
	if m := countrySuffixRe.FindStringSubmatchIndex(raw); m != nil {
		ioc = strings.ToUpper(raw[m[2]:m[3]])
		body = strings.TrimSpace(raw[:m[0]])
	}

	if raw != "" {
		normalized := NormalizePlace(raw)
		for _, v := range e.curated {
			if strings.Contains(normalized, v.Match) {
				country := ioc
				if country == "" {
					country = v.Country
				}
				return e.location(v.City, country, ConfidenceCurated)
			}
		}
	}

	parts := splitSegments(body)
	switch {
	case len(parts) >= 2:
		city := parts[1]
		if stateOnlyRe.MatchString(city) {
			// "Sacramento, CA": the first segment is the city.
			if venueKeywordRe.MatchString(parts[0]) {
				break
			}
			city = parts[0]
		} else {
			city = stateSuffixRe.ReplaceAllString(city, "")
		}
		return e.location(city, ioc, ConfidenceStructure)
	case len(parts) == 1 && !venueKeywordRe.MatchString(parts[0]):
		return e.location(parts[0], ioc, ConfidenceBareCity)
	}
	return e.location(Unknown, ioc, ConfidenceUnknown)
}

func (e *VenueExtractor) location(city, ioc string, confidence int) VenueLocation {
	return VenueLocation{
		City:        city,
		CountryIOC:  ioc,
		CountryCode: e.CountryCode(ioc),
		Confidence:  confidence,
	}
}

func splitSegments(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// CleanVenueName is the display label: country suffix removed, title case.
func CleanVenueName(label string) string {
	raw := collapseSpaces(label)
	if m := countrySuffixRe.FindStringIndex(raw); m != nil {
		raw = strings.TrimSpace(raw[:m[0]])
	}
	return TitleCase(raw)
}
