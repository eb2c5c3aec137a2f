// Package parquet exports the reconciled tables as one snappy-compressed
// parquet file per table.
package parquet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/xitongsys/parquet-go-source/local"
	parquetformat "github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// File names per table.
const (
	AthletesFile     = "athletes.parquet"
	EventsFile       = "events.parquet"
	VenuesFile       = "venues.parquet"
	WeatherFile      = "weather.parquet"
	PerformancesFile = "performances.parquet"
)

// Exporter implements pipeline.Sink over a directory. Files are written to a
// temporary name and renamed into place, so readers never see a partial file.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// NewExporter creates the output directory if needed.
func NewExporter(dir string, logger *slog.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create parquet dir: %w", err)
	}
	return &Exporter{dir: dir, logger: logger}, nil
}

func (e *Exporter) Name() string { return "parquet" }

func (e *Exporter) WriteAthletes(ctx context.Context, rows []domain.Athlete) error {
	return writeFile(ctx, e, AthletesFile, toAthleteRecords(rows))
}

func (e *Exporter) WriteEvents(ctx context.Context, rows []domain.Event) error {
	return writeFile(ctx, e, EventsFile, toEventRecords(rows))
}

func (e *Exporter) WriteVenues(ctx context.Context, rows []domain.Venue) error {
	return writeFile(ctx, e, VenuesFile, toVenueRecords(rows))
}

func (e *Exporter) WriteWeather(ctx context.Context, rows []domain.WeatherCondition) error {
	return writeFile(ctx, e, WeatherFile, toWeatherRecords(rows))
}

func (e *Exporter) WritePerformances(ctx context.Context, rows []domain.Performance) error {
	return writeFile(ctx, e, PerformancesFile, toPerformanceRecords(rows))
}

func writeFile[T any](ctx context.Context, e *Exporter, name string, rows []T) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	final := filepath.Join(e.dir, name)
	tmp := filepath.Join(e.dir, "."+name+".tmp")

	fw, err := local.NewLocalFileWriter(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(T), 1)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet schema for %s: %w", name, err)
	}
	pw.CompressionType = parquetformat.CompressionCodec_SNAPPY

	var result *multierror.Error
	for i := range rows {
		if werr := pw.Write(rows[i]); werr != nil {
			result = multierror.Append(result, fmt.Errorf("row %d: %w", i, werr))
		}
	}
	if serr := pw.WriteStop(); serr != nil {
		result = multierror.Append(result, fmt.Errorf("finalize: %w", serr))
	}
	if cerr := fw.Close(); cerr != nil {
		result = multierror.Append(result, fmt.Errorf("close: %w", cerr))
	}
	if err = result.ErrorOrNil(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	if err = os.Rename(tmp, final); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	e.logger.Debug("parquet file written", "file", final, "rows", len(rows))
	return nil
}
