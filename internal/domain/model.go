package domain

import "time"

// StagedPerformance is one athletics row as delivered by the staging layer.
// All fields are raw strings; parsing happens during reconciliation.
type StagedPerformance struct {
	AthleteName     string `json:"athlete_name"`
	EventName       string `json:"event_name"`
	VenueName       string `json:"venue_name"`
	Result          string `json:"result"`
	Wind            string `json:"wind"`
	Position        string `json:"position"`
	CompetitionDate string `json:"competition_date"`
	Nationality     string `json:"nationality"`
	Gender          string `json:"gender"`
	Source          string `json:"source"`
}

// GazetteerCity is one row of the world cities reference.
type GazetteerCity struct {
	City      string   `json:"city"`
	Country   string   `json:"country"` // two-letter code or country name
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
}

// TemperatureReading is one raw temperature observation. Year is zero when
// the source is already aggregated per month.
type TemperatureReading struct {
	City           string  `json:"city"`
	Country        string  `json:"country"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	AvgTemperature float64 `json:"avg_temperature"`
	Source         string  `json:"source"`
}

// Gender is the single-character athlete gender enum.
type Gender string

const (
	GenderFemale  Gender = "F"
	GenderMale    Gender = "M"
	GenderUnknown Gender = "U"
)

// Athlete is the surviving canonical record for one normalized name.
type Athlete struct {
	Key             int64  `json:"athlete_key"`
	Name            string `json:"name"`
	NameClean       string `json:"name_clean"`
	NameKey         string `json:"-"`
	Nationality     string `json:"nationality"`
	NationalityCode string `json:"nationality_code"`
	Gender          Gender `json:"gender"`
	Specialization  string `json:"specialization"`
	QualityScore    int    `json:"quality_score"`
	Source          string `json:"source"`
}

// Event is one standardized athletics discipline.
type Event struct {
	Key              int64  `json:"event_key"`
	Name             string `json:"name"`
	StandardizedName string `json:"standardized_name"`
	Group            string `json:"group"`
	Category         string `json:"category"`
	DistanceMeters   *int   `json:"distance_meters"`
	Unit             string `json:"unit"`
	Gender           string `json:"gender"`
	IsOutdoor        bool   `json:"is_outdoor"`
}

// Venue is one raw venue label resolved to a place.
type Venue struct {
	Key              int64    `json:"venue_key"`
	RawName          string   `json:"raw_name"`
	CleanName        string   `json:"clean_name"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	CountryCode      string   `json:"country_code"`
	Latitude         *float64 `json:"lat"`
	Longitude        *float64 `json:"lon"`
	Altitude         *float64 `json:"altitude"`
	AltitudeCategory string   `json:"altitude_category"`
	ClimateZone      string   `json:"climate_zone"`
	QualityScore     int      `json:"quality_score"`
	GeoSource        string   `json:"geo_source"`
	Confidence       int      `json:"extraction_confidence"`

	// weatherCity is the standardized city used to look up temperatures.
	weatherCity string
}

// WeatherCondition is the monthly temperature profile of one city.
type WeatherCondition struct {
	Key           int64   `json:"weather_key"`
	City          string  `json:"city"`
	Month         int     `json:"month"`
	MonthName     string  `json:"month_name"`
	TemperatureC  float64 `json:"temperature_c"`
	Category      string  `json:"category"`
	Season        string  `json:"season"`
	HasActualData bool    `json:"has_actual_data"`
	Source        string  `json:"source"`
}

// Performance is one scored fact row.
type Performance struct {
	AthleteKey              int64      `json:"athlete_key"`
	EventKey                int64      `json:"event_key"`
	VenueKey                int64      `json:"venue_key"`
	WeatherKey              int64      `json:"weather_key"`
	DateKey                 int64      `json:"date_key"`
	CompetitionDate         *time.Time `json:"competition_date"`
	ResultValue             float64    `json:"result_value"`
	Rank                    *int       `json:"rank"`
	Wind                    *float64   `json:"wind"`
	PerformanceScore        float64    `json:"performance_score"`
	ScoreMethod             string     `json:"score_method"`
	AltitudeAdjustedResult  float64    `json:"altitude_adjusted_result"`
	TemperatureImpactFactor float64    `json:"temperature_impact_factor"`
	PerformanceAdvantage    float64    `json:"performance_advantage"`
	EnvironmentalBonus      float64    `json:"environmental_bonus"`
	HasWindData             bool       `json:"has_wind_data"`
	QualityScore            int        `json:"quality_score"`
	Source                  string     `json:"source"`
	LoadBatchID             string     `json:"load_batch_id"`
	LoadedAt                time.Time  `json:"loaded_at"`
}

// Unknown is the display form of a missing value; UnknownName is its key form.
const (
	Unknown     = "Unknown"
	UnknownName = "UNKNOWN"
)

// UnknownKey is the key of every sentinel entity. UnknownDateKey marks a
// performance without a competition date.
const (
	UnknownKey     int64 = 0
	UnknownDateKey int64 = 0
)

// UnknownVenue is the default venue referenced by performances whose venue
// label could not be resolved.
func UnknownVenue() Venue {
	return Venue{
		Key:              UnknownKey,
		RawName:          Unknown,
		CleanName:        Unknown,
		City:             Unknown,
		Country:          Unknown,
		CountryCode:      UnknownCountryCode,
		AltitudeCategory: Unknown,
		ClimateZone:      Unknown,
		QualityScore:     QualityLow,
		GeoSource:        GeoSourceUnmatched,
	}
}

// UnknownWeather is the default weather row referenced when no strategy
// found a temperature for a performance.
func UnknownWeather() WeatherCondition {
	return WeatherCondition{
		Key:       UnknownKey,
		City:      UnknownName,
		MonthName: Unknown,
		Category:  Unknown,
		Season:    Unknown,
		Source:    Unknown,
	}
}

// WeatherCity is the standardized city used for temperature lookups.
func (v Venue) WeatherCity() string {
	if v.weatherCity != "" {
		return v.weatherCity
	}
	return NormalizePlace(v.City)
}
