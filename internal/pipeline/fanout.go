package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/igor224659/athletics-dw/internal/observability"
)

// RetryPolicy bounds the exponential backoff applied to each sink write.
type RetryPolicy struct {
	Attempts   int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// DefaultRetryPolicy starts at 200ms and doubles up to 5s.
func DefaultRetryPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		Attempts:   attempts,
		Backoff:    200 * time.Millisecond,
		MaxBackoff: 5 * time.Second,
	}
}

// FanOut writes every table to each configured sink in turn, retrying each
// sink on its own. Failures of different sinks are aggregated.
type FanOut struct {
	sinks   []Sink
	retry   RetryPolicy
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFanOut creates a FanOut. With no sinks every write is a no-op.
func NewFanOut(retry RetryPolicy, logger *slog.Logger, metrics *observability.Metrics, sinks ...Sink) *FanOut {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	return &FanOut{sinks: sinks, retry: retry, logger: logger, metrics: metrics}
}

func (f *FanOut) Name() string { return "fanout" }

func (f *FanOut) WriteAthletes(ctx context.Context, rows []domain.Athlete) error {
	return f.each(ctx, "athletes", len(rows), func(ctx context.Context, s Sink) error {
		return s.WriteAthletes(ctx, rows)
	})
}

func (f *FanOut) WriteEvents(ctx context.Context, rows []domain.Event) error {
	return f.each(ctx, "events", len(rows), func(ctx context.Context, s Sink) error {
		return s.WriteEvents(ctx, rows)
	})
}

func (f *FanOut) WriteVenues(ctx context.Context, rows []domain.Venue) error {
	return f.each(ctx, "venues", len(rows), func(ctx context.Context, s Sink) error {
		return s.WriteVenues(ctx, rows)
	})
}

func (f *FanOut) WriteWeather(ctx context.Context, rows []domain.WeatherCondition) error {
	return f.each(ctx, "weather", len(rows), func(ctx context.Context, s Sink) error {
		return s.WriteWeather(ctx, rows)
	})
}

func (f *FanOut) WritePerformances(ctx context.Context, rows []domain.Performance) error {
	return f.each(ctx, "performances", len(rows), func(ctx context.Context, s Sink) error {
		return s.WritePerformances(ctx, rows)
	})
}

func (f *FanOut) each(ctx context.Context, table string, rows int, write func(context.Context, Sink) error) error {
	var result *multierror.Error
	for _, s := range f.sinks {
		if err := f.withRetry(ctx, s, table, write); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: write %s: %w", s.Name(), table, err))
			continue
		}
		f.logger.Info("table loaded", "sink", s.Name(), "table", table, "rows", rows)
	}
	return result.ErrorOrNil()
}

// withRetry runs write until it succeeds, the attempts are spent or the
// context is cancelled.
func (f *FanOut) withRetry(ctx context.Context, s Sink, table string, write func(context.Context, Sink) error) error {
	backoff := f.retry.Backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = write(ctx, s); err == nil {
			f.metrics.SinkWrites.WithLabelValues(s.Name(), "success").Inc()
			return nil
		}
		if attempt >= f.retry.Attempts || ctx.Err() != nil {
			break
		}

		f.metrics.SinkWrites.WithLabelValues(s.Name(), "retry").Inc()
		f.logger.Warn("sink write failed, retrying",
			"sink", s.Name(),
			"table", table,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		if !sleepWithContext(ctx, backoff) {
			break
		}
		backoff = nextBackoff(backoff, f.retry.MaxBackoff)
	}

	f.metrics.SinkWrites.WithLabelValues(s.Name(), "error").Inc()
	f.logger.Error("sink write failed", "sink", s.Name(), "table", table, "error", err)
	return err
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
