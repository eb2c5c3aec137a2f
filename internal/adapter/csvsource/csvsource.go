// Package csvsource reads the staged athletics, gazetteer and temperature
// inputs from CSV files. Headers are matched case-insensitively against the
// canonical staging names and the names used by the public exports.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/igor224659/athletics-dw/internal/config"
	"github.com/igor224659/athletics-dw/internal/domain"
)

// DefaultSourceTag labels rows whose file carries no source column.
const DefaultSourceTag = "csv"

// Source implements pipeline.Source over three CSV files.
type Source struct {
	athleticsPath   string
	citiesPath      string
	temperaturePath string
	delimiter       rune
	logger          *slog.Logger
}

// New creates a Source. delimiter applies to the athletics file only; the
// reference files are comma separated.
func New(athleticsPath, citiesPath, temperaturePath string, delimiter rune, logger *slog.Logger) *Source {
	return &Source{
		athleticsPath:   athleticsPath,
		citiesPath:      citiesPath,
		temperaturePath: temperaturePath,
		delimiter:       delimiter,
		logger:          logger,
	}
}

// NewFromConfig creates a Source from the ATHLETICS_CSV, CITIES_CSV and
// TEMPERATURE_CSV settings.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Source {
	return New(cfg.AthleticsCSV, cfg.CitiesCSV, cfg.TemperatureCSV, cfg.AthleticsDelimiter, logger)
}

func (s *Source) Performances(ctx context.Context) ([]domain.StagedPerformance, error) {
	var rows []domain.StagedPerformance
	err := s.readFile(ctx, s.athleticsPath, s.delimiter, func(r io.Reader, delim rune) error {
		var skipped int
		var err error
		rows, skipped, err = ReadPerformances(r, delim)
		if skipped > 0 {
			s.logger.Warn("athletics rows without athlete or event skipped", "file", s.athleticsPath, "skipped", skipped)
		}
		return err
	})
	return rows, err
}

func (s *Source) Gazetteer(ctx context.Context) ([]domain.GazetteerCity, error) {
	var rows []domain.GazetteerCity
	err := s.readFile(ctx, s.citiesPath, ',', func(r io.Reader, delim rune) error {
		var err error
		rows, err = ReadGazetteer(r, delim)
		return err
	})
	return rows, err
}

func (s *Source) Temperatures(ctx context.Context) ([]domain.TemperatureReading, error) {
	var rows []domain.TemperatureReading
	err := s.readFile(ctx, s.temperaturePath, ',', func(r io.Reader, delim rune) error {
		var skipped int
		var err error
		rows, skipped, err = ReadTemperatures(r, delim)
		if skipped > 0 {
			s.logger.Warn("temperature rows without city or month skipped", "file", s.temperaturePath, "skipped", skipped)
		}
		return err
	})
	return rows, err
}

func (s *Source) readFile(ctx context.Context, path string, delim rune, read func(io.Reader, rune) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f, delim); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	s.logger.Debug("csv file read", "file", path)
	return nil
}

// Header aliases per input, first match wins.
var (
	performanceColumns = map[string][]string{
		"athlete":     {"athlete_name", "competitor", "athlete", "name"},
		"event":       {"event_name", "event", "discipline"},
		"venue":       {"venue_name", "venue"},
		"result":      {"result", "mark", "performance"},
		"wind":        {"wind"},
		"position":    {"position", "pos", "place", "rank"},
		"date":        {"competition_date", "date"},
		"nationality": {"nationality", "nat", "country"},
		"gender":      {"gender", "sex"},
		"source":      {"source", "source_tag"},
	}
	gazetteerColumns = map[string][]string{
		"city":      {"city", "city_name", "name"},
		"country":   {"country", "country_name", "country_code", "iso2"},
		"latitude":  {"latitude", "lat"},
		"longitude": {"longitude", "lon", "lng"},
		"altitude":  {"altitude", "elevation"},
	}
	temperatureColumns = map[string][]string{
		"city":        {"city"},
		"country":     {"country"},
		"year":        {"year"},
		"month":       {"month"},
		"temperature": {"avg_temperature", "avgtemperature", "average_temperature", "temperature"},
		"source":      {"source", "source_tag"},
	}
)

// ReadPerformances parses staged athletics rows. Rows without an athlete or
// an event are skipped and counted.
func ReadPerformances(r io.Reader, delim rune) ([]domain.StagedPerformance, int, error) {
	t, err := newTable(r, delim, performanceColumns, "athlete", "event")
	if err != nil {
		return nil, 0, err
	}

	var rows []domain.StagedPerformance
	skipped := 0
	err = t.each(func(rec record) {
		row := domain.StagedPerformance{
			AthleteName:     rec.get("athlete"),
			EventName:       rec.get("event"),
			VenueName:       rec.get("venue"),
			Result:          rec.get("result"),
			Wind:            rec.get("wind"),
			Position:        rec.get("position"),
			CompetitionDate: rec.get("date"),
			Nationality:     rec.get("nationality"),
			Gender:          rec.get("gender"),
			Source:          rec.getOr("source", DefaultSourceTag),
		}
		if row.AthleteName == "" || row.EventName == "" {
			skipped++
			return
		}
		rows = append(rows, row)
	})
	return rows, skipped, err
}

// ReadGazetteer parses world city rows. Unparseable coordinates become nil.
func ReadGazetteer(r io.Reader, delim rune) ([]domain.GazetteerCity, error) {
	t, err := newTable(r, delim, gazetteerColumns, "city")
	if err != nil {
		return nil, err
	}

	var rows []domain.GazetteerCity
	err = t.each(func(rec record) {
		city := rec.get("city")
		if city == "" {
			return
		}
		rows = append(rows, domain.GazetteerCity{
			City:      city,
			Country:   rec.get("country"),
			Latitude:  parseFloat(rec.get("latitude")),
			Longitude: parseFloat(rec.get("longitude")),
			Altitude:  parseFloat(rec.get("altitude")),
		})
	})
	return rows, err
}

// ReadTemperatures parses daily or monthly temperature rows. Rows without a
// city or a valid month are skipped and counted; the year is zero when the
// file has no year column.
func ReadTemperatures(r io.Reader, delim rune) ([]domain.TemperatureReading, int, error) {
	t, err := newTable(r, delim, temperatureColumns, "city", "month", "temperature")
	if err != nil {
		return nil, 0, err
	}

	var rows []domain.TemperatureReading
	skipped := 0
	err = t.each(func(rec record) {
		city := rec.get("city")
		month, monthErr := strconv.Atoi(rec.get("month"))
		temp := parseFloat(rec.get("temperature"))
		if city == "" || monthErr != nil || month < 1 || month > 12 || temp == nil {
			skipped++
			return
		}
		year, _ := strconv.Atoi(rec.get("year"))
		rows = append(rows, domain.TemperatureReading{
			City:           city,
			Country:        rec.get("country"),
			Year:           year,
			Month:          month,
			AvgTemperature: *temp,
			Source:         rec.getOr("source", DefaultSourceTag),
		})
	})
	return rows, skipped, err
}

type table struct {
	reader  *csv.Reader
	columns map[string]int
}

type record struct {
	fields  []string
	columns map[string]int
}

func newTable(r io.Reader, delim rune, aliases map[string][]string, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	columns := make(map[string]int, len(aliases))
	for field, names := range aliases {
		for _, name := range names {
			if i, ok := index[name]; ok {
				columns[field] = i
				break
			}
		}
	}
	for _, field := range required {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("missing %s column (accepted: %s)", field, strings.Join(aliases[field], ", "))
		}
	}
	return &table{reader: cr, columns: columns}, nil
}

func (t *table) each(fn func(record)) error {
	for {
		fields, err := t.reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(record{fields: fields, columns: t.columns})
	}
}

func (r record) get(field string) string {
	i, ok := r.columns[field]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) getOr(field, def string) string {
	if v := r.get(field); v != "" {
		return v
	}
	return def
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
