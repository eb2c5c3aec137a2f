package domain

// Tables is the immutable reference data injected into the reconciliation
// components. Each component builds its own indexes from it.
type Tables struct {
	Countries        []Country         `koanf:"countries"`
	Venues           []VenueAlias      `koanf:"venues"`
	CityAliases      []CityAlias       `koanf:"city_aliases"`
	WeatherProxies   []CityAlias       `koanf:"weather_proxies"`
	ClimateEstimates []ClimateEstimate `koanf:"climate_estimates"`
	Coefficients     []Coefficient     `koanf:"coefficients"`

	// RealismMargin is the fraction past a world record still accepted as
	// plausible (0.15 = 15% slower or shorter).
	RealismMargin float64 `koanf:"realism_margin"`
}

// Country maps an IOC code to its ISO 3166 alpha-2 code and English name.
type Country struct {
	IOC  string `koanf:"ioc"`
	ISO2 string `koanf:"iso2"`
	Name string `koanf:"name"`
}

// VenueAlias resolves a well-known venue to its city. Match is compared as a
// substring of the normalized venue label. Country is an IOC code used when
// the label carries none.
type VenueAlias struct {
	Match   string `koanf:"match"`
	City    string `koanf:"city"`
	Country string `koanf:"country"`
}

// CityAlias rewrites a local city spelling to its canonical form.
type CityAlias struct {
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// ClimateEstimate is a synthetic monthly temperature profile (January first).
type ClimateEstimate struct {
	City         string    `koanf:"city"`
	Climate      string    `koanf:"climate"`
	Temperatures []float64 `koanf:"temperatures"`
}

// Coefficient holds the scoring constants for one event and gender together
// with the world record they were calibrated against.
type Coefficient struct {
	Event  string  `koanf:"event"`
	Gender Gender  `koanf:"gender"`
	A      float64 `koanf:"a"`
	B      float64 `koanf:"b"`
	C      float64 `koanf:"c"`
	Record float64 `koanf:"record"`
}

// aliasIndex builds a normalized From -> To lookup.
func aliasIndex(aliases []CityAlias) map[string]string {
	idx := make(map[string]string, len(aliases))
	for _, a := range aliases {
		idx[NormalizePlace(a.From)] = NormalizePlace(a.To)
	}
	return idx
}
