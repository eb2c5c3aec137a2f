package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/igor224659/athletics-dw/internal/observability"
)

// Source supplies the staged inputs of one run.
type Source interface {
	Performances(ctx context.Context) ([]domain.StagedPerformance, error)
	Gazetteer(ctx context.Context) ([]domain.GazetteerCity, error)
	Temperatures(ctx context.Context) ([]domain.TemperatureReading, error)
}

// Sink persists reconciled tables. Every write replaces the table's previous
// contents.
type Sink interface {
	Name() string
	WriteAthletes(ctx context.Context, rows []domain.Athlete) error
	WriteEvents(ctx context.Context, rows []domain.Event) error
	WriteVenues(ctx context.Context, rows []domain.Venue) error
	WriteWeather(ctx context.Context, rows []domain.WeatherCondition) error
	WritePerformances(ctx context.Context, rows []domain.Performance) error
}

// Pipeline orchestrates one extract-reconcile-load run.
type Pipeline struct {
	source     Source
	reconciler *Reconciler
	sink       Sink
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
	last       atomic.Pointer[Report]
	newBatchID func() string
}

// New creates a Pipeline with the given stages and observability.
func New(source Source, reconciler *Reconciler, sink Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:     source,
		reconciler: reconciler,
		sink:       sink,
		logger:     logger,
		metrics:    metrics,
		newBatchID: uuid.NewString,
	}
}

// CheckReadiness returns nil once a run has loaded every table, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no reconciliation run has completed yet")
	}
	return nil
}

// LastReport returns the report of the most recent successful run.
func (p *Pipeline) LastReport() (Report, bool) {
	r := p.last.Load()
	if r == nil {
		return Report{}, false
	}
	return *r, true
}

// Run extracts the staged inputs, reconciles them in memory and loads the
// resulting tables, dimensions before facts. Data-quality problems end up in
// the report; only source, sink and cancellation failures are returned.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	batchID := p.newBatchID()
	logger := p.logger.With("load_batch_id", batchID)
	logger.Info("pipeline started")

	in, err := p.extract(ctx)
	if err != nil {
		return Report{BatchID: batchID}, fmt.Errorf("extract: %w", err)
	}
	logger.Info("staged inputs read",
		"performances", len(in.Performances),
		"gazetteer", len(in.Gazetteer),
		"temperatures", len(in.Temperatures),
	)

	ds, report := p.reconciler.Reconcile(ctx, in, batchID)
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("reconcile: %w", err)
	}

	if err := p.load(ctx, ds); err != nil {
		return report, fmt.Errorf("load: %w", err)
	}

	report.Duration = time.Since(start)
	report.Log(logger)
	report.Export(p.metrics)
	p.metrics.RunDuration.Observe(report.Duration.Seconds())
	p.last.Store(&report)
	p.ready.Store(true)
	return report, nil
}

func (p *Pipeline) extract(ctx context.Context) (Inputs, error) {
	var in Inputs
	var err error

	if in.Performances, err = p.source.Performances(ctx); err != nil {
		return Inputs{}, fmt.Errorf("performances: %w", err)
	}
	if in.Gazetteer, err = p.source.Gazetteer(ctx); err != nil {
		return Inputs{}, fmt.Errorf("gazetteer: %w", err)
	}
	if in.Temperatures, err = p.source.Temperatures(ctx); err != nil {
		return Inputs{}, fmt.Errorf("temperatures: %w", err)
	}

	p.metrics.RowsRead.WithLabelValues("performances").Add(float64(len(in.Performances)))
	p.metrics.RowsRead.WithLabelValues("gazetteer").Add(float64(len(in.Gazetteer)))
	p.metrics.RowsRead.WithLabelValues("temperatures").Add(float64(len(in.Temperatures)))
	return in, nil
}

// load writes the tables in dependency order. The sentinel venue and weather
// rows are always present so facts can reference them.
func (p *Pipeline) load(ctx context.Context, ds Dataset) error {
	if err := p.sink.WriteEvents(ctx, ds.Events); err != nil {
		return err
	}
	if err := p.sink.WriteAthletes(ctx, ds.Athletes); err != nil {
		return err
	}
	venues := append([]domain.Venue{domain.UnknownVenue()}, ds.Venues...)
	if err := p.sink.WriteVenues(ctx, venues); err != nil {
		return err
	}
	weather := append([]domain.WeatherCondition{domain.UnknownWeather()}, ds.Weather...)
	if err := p.sink.WriteWeather(ctx, weather); err != nil {
		return err
	}
	return p.sink.WritePerformances(ctx, ds.Performances)
}
