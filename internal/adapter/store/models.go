package store

import (
	"time"

	"github.com/igor224659/athletics-dw/internal/domain"
)

// Keys are assigned by the reconciler, so none of the dimension keys
// auto-increment; the sentinel rows keep key 0.

type athleteModel struct {
	AthleteKey      int64  `gorm:"column:athlete_key;primaryKey;autoIncrement:false"`
	Name            string `gorm:"column:name;not null"`
	NameClean       string `gorm:"column:name_clean;index"`
	Nationality     string `gorm:"column:nationality"`
	NationalityCode string `gorm:"column:nationality_code;size:3"`
	Gender          string `gorm:"column:gender;size:1"`
	Specialization  string `gorm:"column:specialization"`
	QualityScore    int    `gorm:"column:quality_score"`
	Source          string `gorm:"column:source"`
}

func (athleteModel) TableName() string { return "reconciled_athletes" }

type eventModel struct {
	EventKey         int64  `gorm:"column:event_key;primaryKey;autoIncrement:false"`
	Name             string `gorm:"column:name;not null"`
	StandardizedName string `gorm:"column:standardized_name;index"`
	Group            string `gorm:"column:event_group"`
	Category         string `gorm:"column:category"`
	DistanceMeters   *int   `gorm:"column:distance_meters"`
	Unit             string `gorm:"column:unit"`
	Gender           string `gorm:"column:gender"`
	IsOutdoor        bool   `gorm:"column:is_outdoor"`
}

func (eventModel) TableName() string { return "reconciled_events" }

type venueModel struct {
	VenueKey         int64    `gorm:"column:venue_key;primaryKey;autoIncrement:false"`
	RawName          string   `gorm:"column:raw_name;not null"`
	CleanName        string   `gorm:"column:clean_name"`
	City             string   `gorm:"column:city;index"`
	Country          string   `gorm:"column:country"`
	CountryCode      string   `gorm:"column:country_code;size:2"`
	Lat              *float64 `gorm:"column:lat"`
	Lon              *float64 `gorm:"column:lon"`
	Altitude         *float64 `gorm:"column:altitude"`
	AltitudeCategory string   `gorm:"column:altitude_category"`
	ClimateZone      string   `gorm:"column:climate_zone"`
	QualityScore     int      `gorm:"column:quality_score"`
	GeoSource        string   `gorm:"column:geo_source"`
}

func (venueModel) TableName() string { return "reconciled_venues" }

type weatherModel struct {
	WeatherKey    int64   `gorm:"column:weather_key;primaryKey;autoIncrement:false"`
	City          string  `gorm:"column:city;index"`
	Month         int     `gorm:"column:month"`
	MonthName     string  `gorm:"column:month_name"`
	TemperatureC  float64 `gorm:"column:temperature_c"`
	Category      string  `gorm:"column:category"`
	Season        string  `gorm:"column:season"`
	HasActualData bool    `gorm:"column:has_actual_data"`
	Source        string  `gorm:"column:source"`
}

func (weatherModel) TableName() string { return "reconciled_weather" }

type performanceModel struct {
	PerformanceID           int64      `gorm:"column:performance_id;primaryKey"`
	AthleteKey              int64      `gorm:"column:athlete_key;index"`
	EventKey                int64      `gorm:"column:event_key;index"`
	VenueKey                int64      `gorm:"column:venue_key;index"`
	WeatherKey              int64      `gorm:"column:weather_key"`
	DateKey                 int64      `gorm:"column:date_key;index"`
	CompetitionDate         *time.Time `gorm:"column:competition_date"`
	ResultValue             float64    `gorm:"column:result_value"`
	Rank                    *int       `gorm:"column:rank"`
	Wind                    *float64   `gorm:"column:wind"`
	PerformanceScore        float64    `gorm:"column:performance_score"`
	ScoreMethod             string     `gorm:"column:score_method"`
	AltitudeAdjustedResult  float64    `gorm:"column:altitude_adjusted_result"`
	TemperatureImpactFactor float64    `gorm:"column:temperature_impact_factor"`
	PerformanceAdvantage    float64    `gorm:"column:performance_advantage"`
	EnvironmentalBonus      float64    `gorm:"column:environmental_bonus"`
	HasWindData             bool       `gorm:"column:has_wind_data"`
	QualityScore            int        `gorm:"column:quality_score"`
	Source                  string     `gorm:"column:source"`
	LoadBatchID             string     `gorm:"column:load_batch_id;index"`
	LoadedAt                time.Time  `gorm:"column:loaded_at"`
}

func (performanceModel) TableName() string { return "reconciled_performances" }

func allModels() []any {
	return []any{&athleteModel{}, &eventModel{}, &venueModel{}, &weatherModel{}, &performanceModel{}}
}

func toAthleteModels(rows []domain.Athlete) []athleteModel {
	out := make([]athleteModel, 0, len(rows))
	for _, a := range rows {
		out = append(out, athleteModel{
			AthleteKey:      a.Key,
			Name:            a.Name,
			NameClean:       a.NameClean,
			Nationality:     a.Nationality,
			NationalityCode: a.NationalityCode,
			Gender:          string(a.Gender),
			Specialization:  a.Specialization,
			QualityScore:    a.QualityScore,
			Source:          a.Source,
		})
	}
	return out
}

func toEventModels(rows []domain.Event) []eventModel {
	out := make([]eventModel, 0, len(rows))
	for _, e := range rows {
		out = append(out, eventModel{
			EventKey:         e.Key,
			Name:             e.Name,
			StandardizedName: e.StandardizedName,
			Group:            e.Group,
			Category:         e.Category,
			DistanceMeters:   e.DistanceMeters,
			Unit:             e.Unit,
			Gender:           e.Gender,
			IsOutdoor:        e.IsOutdoor,
		})
	}
	return out
}

func toVenueModels(rows []domain.Venue) []venueModel {
	out := make([]venueModel, 0, len(rows))
	for _, v := range rows {
		out = append(out, venueModel{
			VenueKey:         v.Key,
			RawName:          v.RawName,
			CleanName:        v.CleanName,
			City:             v.City,
			Country:          v.Country,
			CountryCode:      v.CountryCode,
			Lat:              v.Latitude,
			Lon:              v.Longitude,
			Altitude:         v.Altitude,
			AltitudeCategory: v.AltitudeCategory,
			ClimateZone:      v.ClimateZone,
			QualityScore:     v.QualityScore,
			GeoSource:        v.GeoSource,
		})
	}
	return out
}

func toWeatherModels(rows []domain.WeatherCondition) []weatherModel {
	out := make([]weatherModel, 0, len(rows))
	for _, w := range rows {
		out = append(out, weatherModel{
			WeatherKey:    w.Key,
			City:          w.City,
			Month:         w.Month,
			MonthName:     w.MonthName,
			TemperatureC:  w.TemperatureC,
			Category:      w.Category,
			Season:        w.Season,
			HasActualData: w.HasActualData,
			Source:        w.Source,
		})
	}
	return out
}

func toPerformanceModels(rows []domain.Performance) []performanceModel {
	out := make([]performanceModel, 0, len(rows))
	for _, p := range rows {
		out = append(out, performanceModel{
			AthleteKey:              p.AthleteKey,
			EventKey:                p.EventKey,
			VenueKey:                p.VenueKey,
			WeatherKey:              p.WeatherKey,
			DateKey:                 p.DateKey,
			CompetitionDate:         p.CompetitionDate,
			ResultValue:             p.ResultValue,
			Rank:                    p.Rank,
			Wind:                    p.Wind,
			PerformanceScore:        p.PerformanceScore,
			ScoreMethod:             p.ScoreMethod,
			AltitudeAdjustedResult:  p.AltitudeAdjustedResult,
			TemperatureImpactFactor: p.TemperatureImpactFactor,
			PerformanceAdvantage:    p.PerformanceAdvantage,
			EnvironmentalBonus:      p.EnvironmentalBonus,
			HasWindData:             p.HasWindData,
			QualityScore:            p.QualityScore,
			Source:                  p.Source,
			LoadBatchID:             p.LoadBatchID,
			LoadedAt:                p.LoadedAt,
		})
	}
	return out
}
