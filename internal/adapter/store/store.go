// Package store persists the reconciled tables through gorm, on SQLite for
// local runs or Postgres for the warehouse.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/igor224659/athletics-dw/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store implements pipeline.Sink. Each write replaces the whole table inside
// one transaction, so a failed write leaves the previous contents in place.
type Store struct {
	db        *gorm.DB
	batchSize int
	logger    *slog.Logger
}

// Open connects with the named driver ("sqlite" or "postgres") and migrates
// the reconciled schema.
func Open(driver, dsn string, batchSize int, logger *slog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if driver == "sqlite" {
		// Every pooled connection to ":memory:" would see its own database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("migrate reconciled schema: %w", err)
	}

	if batchSize < 1 {
		batchSize = 1
	}
	return &Store{db: db, batchSize: batchSize, logger: logger}, nil
}

func (s *Store) Name() string { return "store" }

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) WriteAthletes(ctx context.Context, rows []domain.Athlete) error {
	return replace(ctx, s, toAthleteModels(rows))
}

func (s *Store) WriteEvents(ctx context.Context, rows []domain.Event) error {
	return replace(ctx, s, toEventModels(rows))
}

func (s *Store) WriteVenues(ctx context.Context, rows []domain.Venue) error {
	return replace(ctx, s, toVenueModels(rows))
}

func (s *Store) WriteWeather(ctx context.Context, rows []domain.WeatherCondition) error {
	return replace(ctx, s, toWeatherModels(rows))
}

func (s *Store) WritePerformances(ctx context.Context, rows []domain.Performance) error {
	return replace(ctx, s, toPerformanceModels(rows))
}

// replace deletes every row of T's table and inserts rows in batches.
func replace[T any](ctx context.Context, s *Store, rows []T) error {
	var model T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model).Error; err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, s.batchSize).Error; err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("table replaced", "model", fmt.Sprintf("%T", model), "rows", len(rows))
	return nil
}

// Counts reports the row count of every reconciled table.
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 5)
	for _, m := range allModels() {
		var n int64
		if err := s.db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %T: %w", m, err)
		}
		counts[m.(interface{ TableName() string }).TableName()] = n
	}
	return counts, nil
}
