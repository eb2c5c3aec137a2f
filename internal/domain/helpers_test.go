package domain

import (
	"context"
	"io"
	"log/slog"
)

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, _, _ string) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

// testTables is a small synthetic reference set.
func testTables() Tables {
	return Tables{
		Countries: []Country{
			{IOC: "GER", ISO2: "DE", Name: "Germany"},
			{IOC: "FRA", ISO2: "FR", Name: "France"},
			{IOC: "USA", ISO2: "US", Name: "United States"},
			{IOC: "MEX", ISO2: "MX", Name: "Mexico"},
			{IOC: "ITA", ISO2: "IT", Name: "Italy"},
		},
		Venues: []VenueAlias{
			{Match: "Stade de France", City: "Paris", Country: "FRA"},
			{Match: "Hayward Field", City: "Eugene", Country: "USA"},
		},
		CityAliases: []CityAlias{
			{From: "Roma", To: "Rome"},
			{From: "München", To: "Munich"},
		},
		WeatherProxies: []CityAlias{
			{From: "Palo Alto", To: "San Francisco"},
		},
		ClimateEstimates: []ClimateEstimate{
			{City: "Eugene", Climate: "Temperate", Temperatures: []float64{5, 7, 10, 13, 17, 21, 24, 24, 20, 15, 9, 5}},
		},
		Coefficients: []Coefficient{
			{Event: "100m", Gender: GenderMale, A: 25.3727, B: 18, C: 1.81, Record: 9.58},
			{Event: "100m", Gender: GenderFemale, A: 24.8891, B: 19, C: 1.81, Record: 10.49},
			{Event: "110m Hurdles", Gender: GenderMale, A: 6.06812, B: 28.5, C: 1.92, Record: 12.8},
			{Event: "Long Jump", Gender: GenderMale, A: 82.824, B: 2.2, C: 1.4, Record: 8.95},
		},
		RealismMargin: 0.15,
	}
}

func testGazetteer() []GazetteerCity {
	return []GazetteerCity{
		{City: "Berlin", Country: "DE", Latitude: ptr(52.52), Longitude: ptr(13.405), Altitude: ptr(34.0)},
		{City: "Paris", Country: "France", Latitude: ptr(48.8566), Longitude: ptr(2.3522), Altitude: ptr(35.0)},
		{City: "Mexico City", Country: "MX", Latitude: ptr(19.4326), Longitude: ptr(-99.1332), Altitude: ptr(2240.0)},
		{City: "Rome", Country: "IT", Latitude: ptr(41.9028), Longitude: ptr(12.4964)},
		{City: "Eugene", Country: "US", Latitude: ptr(44.0521), Longitude: ptr(-123.0868), Altitude: ptr(130.0)},
	}
}
