package parquet

import (
	"time"

	"github.com/igor224659/athletics-dw/internal/domain"
)

type athleteRecord struct {
	AthleteKey      int64  `parquet:"name=athlete_key, type=INT64"`
	Name            string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	NameClean       string `parquet:"name=name_clean, type=BYTE_ARRAY, convertedtype=UTF8"`
	Nationality     string `parquet:"name=nationality, type=BYTE_ARRAY, convertedtype=UTF8"`
	NationalityCode string `parquet:"name=nationality_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	Gender          string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8"`
	Specialization  string `parquet:"name=specialization, type=BYTE_ARRAY, convertedtype=UTF8"`
	QualityScore    int32  `parquet:"name=quality_score, type=INT32"`
	Source          string `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type eventRecord struct {
	EventKey         int64  `parquet:"name=event_key, type=INT64"`
	Name             string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	StandardizedName string `parquet:"name=standardized_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Group            string `parquet:"name=group, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category         string `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	DistanceMeters   *int32 `parquet:"name=distance_meters, type=INT32, repetitiontype=OPTIONAL"`
	Unit             string `parquet:"name=unit, type=BYTE_ARRAY, convertedtype=UTF8"`
	Gender           string `parquet:"name=gender, type=BYTE_ARRAY, convertedtype=UTF8"`
	IsOutdoor        bool   `parquet:"name=is_outdoor, type=BOOLEAN"`
}

type venueRecord struct {
	VenueKey         int64    `parquet:"name=venue_key, type=INT64"`
	RawName          string   `parquet:"name=raw_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	CleanName        string   `parquet:"name=clean_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	City             string   `parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8"`
	Country          string   `parquet:"name=country, type=BYTE_ARRAY, convertedtype=UTF8"`
	CountryCode      string   `parquet:"name=country_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	Lat              *float64 `parquet:"name=lat, type=DOUBLE, repetitiontype=OPTIONAL"`
	Lon              *float64 `parquet:"name=lon, type=DOUBLE, repetitiontype=OPTIONAL"`
	Altitude         *float64 `parquet:"name=altitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	AltitudeCategory string   `parquet:"name=altitude_category, type=BYTE_ARRAY, convertedtype=UTF8"`
	ClimateZone      string   `parquet:"name=climate_zone, type=BYTE_ARRAY, convertedtype=UTF8"`
	QualityScore     int32    `parquet:"name=quality_score, type=INT32"`
	GeoSource        string   `parquet:"name=geo_source, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type weatherRecord struct {
	WeatherKey    int64   `parquet:"name=weather_key, type=INT64"`
	City          string  `parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8"`
	Month         int32   `parquet:"name=month, type=INT32"`
	MonthName     string  `parquet:"name=month_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	TemperatureC  float64 `parquet:"name=temperature_c, type=DOUBLE"`
	Category      string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Season        string  `parquet:"name=season, type=BYTE_ARRAY, convertedtype=UTF8"`
	HasActualData bool    `parquet:"name=has_actual_data, type=BOOLEAN"`
	Source        string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type performanceRecord struct {
	AthleteKey              int64    `parquet:"name=athlete_key, type=INT64"`
	EventKey                int64    `parquet:"name=event_key, type=INT64"`
	VenueKey                int64    `parquet:"name=venue_key, type=INT64"`
	WeatherKey              int64    `parquet:"name=weather_key, type=INT64"`
	DateKey                 int64    `parquet:"name=date_key, type=INT64"`
	CompetitionDate         *int32   `parquet:"name=competition_date, type=INT32, convertedtype=DATE, repetitiontype=OPTIONAL"`
	ResultValue             float64  `parquet:"name=result_value, type=DOUBLE"`
	Rank                    *int32   `parquet:"name=rank, type=INT32, repetitiontype=OPTIONAL"`
	Wind                    *float64 `parquet:"name=wind, type=DOUBLE, repetitiontype=OPTIONAL"`
	PerformanceScore        float64  `parquet:"name=performance_score, type=DOUBLE"`
	ScoreMethod             string   `parquet:"name=score_method, type=BYTE_ARRAY, convertedtype=UTF8"`
	AltitudeAdjustedResult  float64  `parquet:"name=altitude_adjusted_result, type=DOUBLE"`
	TemperatureImpactFactor float64  `parquet:"name=temperature_impact_factor, type=DOUBLE"`
	PerformanceAdvantage    float64  `parquet:"name=performance_advantage, type=DOUBLE"`
	EnvironmentalBonus      float64  `parquet:"name=environmental_bonus, type=DOUBLE"`
	HasWindData             bool     `parquet:"name=has_wind_data, type=BOOLEAN"`
	QualityScore            int32    `parquet:"name=quality_score, type=INT32"`
	Source                  string   `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8"`
	LoadBatchID             string   `parquet:"name=load_batch_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	LoadedAt                int64    `parquet:"name=loaded_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

func toAthleteRecords(rows []domain.Athlete) []athleteRecord {
	out := make([]athleteRecord, 0, len(rows))
	for _, a := range rows {
		out = append(out, athleteRecord{
			AthleteKey:      a.Key,
			Name:            a.Name,
			NameClean:       a.NameClean,
			Nationality:     a.Nationality,
			NationalityCode: a.NationalityCode,
			Gender:          string(a.Gender),
			Specialization:  a.Specialization,
			QualityScore:    int32(a.QualityScore),
			Source:          a.Source,
		})
	}
	return out
}

func toEventRecords(rows []domain.Event) []eventRecord {
	out := make([]eventRecord, 0, len(rows))
	for _, e := range rows {
		out = append(out, eventRecord{
			EventKey:         e.Key,
			Name:             e.Name,
			StandardizedName: e.StandardizedName,
			Group:            e.Group,
			Category:         e.Category,
			DistanceMeters:   int32Ptr(e.DistanceMeters),
			Unit:             e.Unit,
			Gender:           e.Gender,
			IsOutdoor:        e.IsOutdoor,
		})
	}
	return out
}

func toVenueRecords(rows []domain.Venue) []venueRecord {
	out := make([]venueRecord, 0, len(rows))
	for _, v := range rows {
		out = append(out, venueRecord{
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
			QualityScore:     int32(v.QualityScore),
			GeoSource:        v.GeoSource,
		})
	}
	return out
}

func toWeatherRecords(rows []domain.WeatherCondition) []weatherRecord {
	out := make([]weatherRecord, 0, len(rows))
	for _, w := range rows {
		out = append(out, weatherRecord{
			WeatherKey:    w.Key,
			City:          w.City,
			Month:         int32(w.Month),
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

func toPerformanceRecords(rows []domain.Performance) []performanceRecord {
	out := make([]performanceRecord, 0, len(rows))
	for _, p := range rows {
		out = append(out, performanceRecord{
			AthleteKey:              p.AthleteKey,
			EventKey:                p.EventKey,
			VenueKey:                p.VenueKey,
			WeatherKey:              p.WeatherKey,
			DateKey:                 p.DateKey,
			CompetitionDate:         epochDays(p.CompetitionDate),
			ResultValue:             p.ResultValue,
			Rank:                    int32Ptr(p.Rank),
			Wind:                    p.Wind,
			PerformanceScore:        p.PerformanceScore,
			ScoreMethod:             p.ScoreMethod,
			AltitudeAdjustedResult:  p.AltitudeAdjustedResult,
			TemperatureImpactFactor: p.TemperatureImpactFactor,
			PerformanceAdvantage:    p.PerformanceAdvantage,
			EnvironmentalBonus:      p.EnvironmentalBonus,
			HasWindData:             p.HasWindData,
			QualityScore:            int32(p.QualityScore),
			Source:                  p.Source,
			LoadBatchID:             p.LoadBatchID,
			LoadedAt:                p.LoadedAt.UnixMilli(),
		})
	}
	return out
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

// epochDays encodes a date as the parquet DATE logical type.
func epochDays(t *time.Time) *int32 {
	if t == nil {
		return nil
	}
	d := int32(t.UTC().Truncate(24*time.Hour).Unix() / 86400)
	return &d
}
