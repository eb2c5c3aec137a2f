// Command etl runs one reconciliation of the staged athletics data: it reads
// the staged inputs, builds the reconciled tables and loads them into every
// configured sink.
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/igor224659/athletics-dw/internal/adapter/csvsource"
	"github.com/igor224659/athletics-dw/internal/adapter/httpadapter"
	kafkaadapter "github.com/igor224659/athletics-dw/internal/adapter/kafka"
	"github.com/igor224659/athletics-dw/internal/adapter/mapbox"
	"github.com/igor224659/athletics-dw/internal/adapter/parquet"
	"github.com/igor224659/athletics-dw/internal/adapter/postgres"
	"github.com/igor224659/athletics-dw/internal/adapter/store"
	"github.com/igor224659/athletics-dw/internal/config"
	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/igor224659/athletics-dw/internal/observability"
	"github.com/igor224659/athletics-dw/internal/pipeline"
	"github.com/igor224659/athletics-dw/internal/refdata"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables, err := refdata.Load(cfg.RefDataFile)
	if err != nil {
		return err
	}

	// Geocoder fallback is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var closers []namedCloser
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Error("close error", "resource", closers[i].name, "error", err)
			}
		}
	}()

	source, err := openSource(ctx, cfg, logger, &closers)
	if err != nil {
		return err
	}

	sinks, st, err := openSinks(cfg, logger, &closers)
	if err != nil {
		return err
	}
	if len(sinks) == 0 {
		logger.Warn("no sinks configured, reconciled tables will be discarded")
	}

	reconciler := pipeline.NewReconciler(tables, geocoder, pipeline.SettingsFromConfig(cfg), logger, metrics)
	fanout := pipeline.NewFanOut(pipeline.DefaultRetryPolicy(cfg.LoadMaxAttempts), logger, metrics, sinks...)
	p := pipeline.New(source, reconciler, fanout, logger, metrics)

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	_, runErr := p.Run(ctx)
	if runErr == nil && st != nil {
		if counts, err := st.Counts(ctx); err != nil {
			logger.Warn("could not count stored rows", "error", err)
		} else {
			logger.Info("store row counts", "tables", counts)
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return runErr
}

type namedCloser struct {
	io.Closer
	name string
}

func openSource(ctx context.Context, cfg *config.Config, logger *slog.Logger, closers *[]namedCloser) (pipeline.Source, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		db, err := postgres.Open(ctx, cfg.StagingDSN)
		if err != nil {
			return nil, err
		}
		src := postgres.NewSource(db, logger)
		*closers = append(*closers, namedCloser{Closer: src, name: "staging"})
		logger.Info("reading staged tables from postgres")
		return src, nil
	default:
		logger.Info("reading staged csv files",
			"athletics", cfg.AthleticsCSV,
			"cities", cfg.CitiesCSV,
			"temperatures", cfg.TemperatureCSV,
		)
		return csvsource.NewFromConfig(cfg, logger), nil
	}
}

// openSinks builds the configured sinks in load order: the relational store
// first, then the parquet export, then the kafka topic.
func openSinks(cfg *config.Config, logger *slog.Logger, closers *[]namedCloser) ([]pipeline.Sink, *store.Store, error) {
	var sinks []pipeline.Sink
	var st *store.Store

	if cfg.StoreDriver != config.StoreNone {
		var err error
		st, err = store.Open(cfg.StoreDriver, cfg.StoreDSN, cfg.BatchSize, logger)
		if err != nil {
			return nil, nil, err
		}
		*closers = append(*closers, namedCloser{Closer: st, name: "store"})
		sinks = append(sinks, st)
	}

	if cfg.ParquetDir != "" {
		exporter, err := parquet.NewExporter(cfg.ParquetDir, logger)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, exporter)
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer := kafkaadapter.NewWriter(cfg, logger)
		*closers = append(*closers, namedCloser{Closer: writer, name: "kafka"})
		sinks = append(sinks, writer)
	}

	return sinks, st, nil
}
