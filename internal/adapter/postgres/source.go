// Package postgres reads staged rows from the raw staging schema of the
// warehouse database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// Source tags written on rows read from staging.
const (
	SourceTagAthletics   = "world_athletics"
	SourceTagTemperature = "raw_temperature"
)

const (
	performancesQuery = `SELECT
	COALESCE("Competitor"::text, '') AS athlete_name,
	COALESCE("Event"::text, '') AS event_name,
	COALESCE("Venue"::text, '') AS venue_name,
	COALESCE("Mark"::text, '') AS result,
	COALESCE("Wind"::text, '') AS wind,
	COALESCE("Pos"::text, '') AS position,
	COALESCE("Date"::text, '') AS competition_date,
	COALESCE("Nat"::text, '') AS nationality,
	COALESCE("Sex"::text, '') AS gender
FROM staging.raw_world_athletics
WHERE "Competitor" IS NOT NULL AND "Event" IS NOT NULL`

	gazetteerQuery = `SELECT
	"City"::text AS city,
	COALESCE("Country"::text, '') AS country,
	"Latitude"::double precision AS latitude,
	"Longitude"::double precision AS longitude
FROM staging.raw_cities
WHERE "City" IS NOT NULL`

	temperaturesQuery = `SELECT
	"City"::text AS city,
	COALESCE("Country"::text, '') AS country,
	COALESCE("Year"::int, 0) AS year,
	"Month"::int AS month,
	"AvgTemperature"::double precision AS avg_temperature
FROM staging.raw_temperature
WHERE "City" IS NOT NULL AND "Month" IS NOT NULL AND "AvgTemperature" IS NOT NULL`
)

// Source implements pipeline.Source over the staging schema.
type Source struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect staging database: %w", err)
	}
	return db, nil
}

// NewSource creates a staging Source on an open database.
func NewSource(db *sqlx.DB, logger *slog.Logger) *Source {
	return &Source{db: db, logger: logger}
}

// Close releases the underlying connection pool.
func (s *Source) Close() error {
	return s.db.Close()
}

type performanceRow struct {
	AthleteName     string `db:"athlete_name"`
	EventName       string `db:"event_name"`
	VenueName       string `db:"venue_name"`
	Result          string `db:"result"`
	Wind            string `db:"wind"`
	Position        string `db:"position"`
	CompetitionDate string `db:"competition_date"`
	Nationality     string `db:"nationality"`
	Gender          string `db:"gender"`
}

type cityRow struct {
	City      string          `db:"city"`
	Country   string          `db:"country"`
	Latitude  sql.NullFloat64 `db:"latitude"`
	Longitude sql.NullFloat64 `db:"longitude"`
}

type temperatureRow struct {
	City           string  `db:"city"`
	Country        string  `db:"country"`
	Year           int     `db:"year"`
	Month          int     `db:"month"`
	AvgTemperature float64 `db:"avg_temperature"`
}

func (s *Source) Performances(ctx context.Context) ([]domain.StagedPerformance, error) {
	var rows []performanceRow
	if err := s.db.SelectContext(ctx, &rows, performancesQuery); err != nil {
		return nil, fmt.Errorf("select staged performances: %w", err)
	}

	out := make([]domain.StagedPerformance, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.StagedPerformance{
			AthleteName:     r.AthleteName,
			EventName:       r.EventName,
			VenueName:       r.VenueName,
			Result:          r.Result,
			Wind:            r.Wind,
			Position:        r.Position,
			CompetitionDate: r.CompetitionDate,
			Nationality:     r.Nationality,
			Gender:          r.Gender,
			Source:          SourceTagAthletics,
		})
	}
	s.logger.Debug("staged performances read", "rows", len(out))
	return out, nil
}

func (s *Source) Gazetteer(ctx context.Context) ([]domain.GazetteerCity, error) {
	var rows []cityRow
	if err := s.db.SelectContext(ctx, &rows, gazetteerQuery); err != nil {
		return nil, fmt.Errorf("select staged cities: %w", err)
	}

	out := make([]domain.GazetteerCity, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.GazetteerCity{
			City:      r.City,
			Country:   r.Country,
			Latitude:  nullFloat(r.Latitude),
			Longitude: nullFloat(r.Longitude),
		})
	}
	return out, nil
}

func (s *Source) Temperatures(ctx context.Context) ([]domain.TemperatureReading, error) {
	var rows []temperatureRow
	if err := s.db.SelectContext(ctx, &rows, temperaturesQuery); err != nil {
		return nil, fmt.Errorf("select staged temperatures: %w", err)
	}

	out := make([]domain.TemperatureReading, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.TemperatureReading{
			City:           r.City,
			Country:        r.Country,
			Year:           r.Year,
			Month:          r.Month,
			AvgTemperature: r.AvgTemperature,
			Source:         SourceTagTemperature,
		})
	}
	return out, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
