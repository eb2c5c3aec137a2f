package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/igor224659/athletics-dw/internal/config"
	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/igor224659/athletics-dw/internal/observability"
)

// Inputs are the staged rows of one run.
type Inputs struct {
	Performances []domain.StagedPerformance
	Gazetteer    []domain.GazetteerCity
	Temperatures []domain.TemperatureReading
}

// Dataset is the reconciled layer: four dimensions and the fact table.
type Dataset struct {
	Athletes     []domain.Athlete
	Events       []domain.Event
	Venues       []domain.Venue
	Weather      []domain.WeatherCondition
	Performances []domain.Performance
}

// Settings tunes the reconciliation stages.
type Settings struct {
	GeoMinConfidence           int
	WeatherSimilarityThreshold float64
	Weather                    domain.WeatherSettings
	MinResult                  float64
	MaxResult                  float64
	DropUnmatchedWeather       bool
}

// SettingsFromConfig copies the reconciliation knobs out of the service config.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		GeoMinConfidence:           cfg.GeoMinConfidence,
		WeatherSimilarityThreshold: cfg.WeatherSimilarityThreshold,
		Weather: domain.WeatherSettings{
			MinYear: cfg.TemperatureMinYear,
			MaxYear: cfg.TemperatureMaxYear,
		},
		MinResult:            cfg.MinResultValue,
		MaxResult:            cfg.MaxResultValue,
		DropUnmatchedWeather: cfg.DropUnmatchedWeather,
	}
}

// Reconciler runs the domain stages in order over in-memory inputs.
type Reconciler struct {
	tables   domain.Tables
	scorer   *domain.Scorer
	geocoder domain.Geocoder
	settings Settings
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewReconciler creates a Reconciler. Pass a nil geocoder to disable the
// geocoder fallback for venues.
func NewReconciler(tables domain.Tables, geocoder domain.Geocoder, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *Reconciler {
	return &Reconciler{
		tables:   tables,
		scorer:   domain.NewScorer(tables),
		geocoder: geocoder,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// Reconcile builds every table. Each stage completes before the next starts
// because later stages join against earlier outputs.
func (r *Reconciler) Reconcile(ctx context.Context, in Inputs, batchID string) (Dataset, Report) {
	report := Report{
		BatchID:      batchID,
		Staged:       len(in.Performances),
		Gazetteer:    len(in.Gazetteer),
		Temperatures: len(in.Temperatures),
	}

	names := make([]string, 0, len(in.Performances))
	labels := make([]string, 0, len(in.Performances))
	for _, row := range in.Performances {
		names = append(names, row.EventName)
		labels = append(labels, row.VenueName)
	}

	var ds Dataset
	r.stage("events", func() int {
		ds.Events, report.Events = domain.BuildEvents(names)
		return len(ds.Events)
	})
	r.stage("athletes", func() int {
		ds.Athletes, report.Athletes = domain.DeduplicateAthletes(in.Performances, ds.Events)
		return len(ds.Athletes)
	})
	r.stage("venues", func() int {
		builder := domain.NewVenueBuilder(in.Gazetteer, r.tables, r.settings.GeoMinConfidence, r.geocoder, r.logger)
		ds.Venues, report.Venues = builder.Build(ctx, labels)
		return len(ds.Venues)
	})
	r.stage("weather", func() int {
		needed := make(map[string]bool, len(ds.Venues))
		for _, v := range ds.Venues {
			needed[v.WeatherCity()] = true
		}
		ds.Weather, report.Weather = domain.BuildWeather(in.Temperatures, r.tables, r.settings.Weather, needed)
		return len(ds.Weather)
	})
	r.stage("performances", func() int {
		refs := domain.References{
			Athletes: ds.Athletes,
			Events:   ds.Events,
			Venues:   ds.Venues,
			Weather:  ds.Weather,
			Matcher:  domain.NewWeatherMatcher(ds.Weather, r.tables, r.settings.WeatherSimilarityThreshold),
		}
		ds.Performances, report.Performances = domain.BuildPerformances(in.Performances, refs, r.scorer, domain.PerformanceOptions{
			MinResult:            r.settings.MinResult,
			MaxResult:            r.settings.MaxResult,
			DropUnmatchedWeather: r.settings.DropUnmatchedWeather,
			BatchID:              batchID,
		})
		return len(ds.Performances)
	})

	return ds, report
}

func (r *Reconciler) stage(name string, run func() int) {
	start := time.Now()
	rows := run()
	elapsed := time.Since(start)

	r.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	r.metrics.StageRows.WithLabelValues(name).Set(float64(rows))
	r.logger.Debug("stage complete", "stage", name, "rows", rows, "duration", elapsed)
}
