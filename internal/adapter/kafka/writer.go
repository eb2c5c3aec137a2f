package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/igor224659/athletics-dw/internal/config"
	"github.com/igor224659/athletics-dw/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Message headers attached to every published row.
const (
	HeaderTable       = "table"
	HeaderLoadBatchID = "load_batch_id"
	HeaderLoadedAt    = "loaded_at"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes reconciled rows to a Kafka topic, one JSON message per row.
// It implements pipeline.Sink.
type Writer struct {
	writer    messageWriter
	batchSize int
	logger    *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, batchSize: cfg.BatchSize, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

func (w *Writer) WriteAthletes(ctx context.Context, rows []domain.Athlete) error {
	return publish(ctx, w, "athletes", rows, func(a domain.Athlete) (string, []kafkago.Header) {
		return strconv.FormatInt(a.Key, 10), nil
	})
}

func (w *Writer) WriteEvents(ctx context.Context, rows []domain.Event) error {
	return publish(ctx, w, "events", rows, func(e domain.Event) (string, []kafkago.Header) {
		return strconv.FormatInt(e.Key, 10), nil
	})
}

func (w *Writer) WriteVenues(ctx context.Context, rows []domain.Venue) error {
	return publish(ctx, w, "venues", rows, func(v domain.Venue) (string, []kafkago.Header) {
		return strconv.FormatInt(v.Key, 10), nil
	})
}

func (w *Writer) WriteWeather(ctx context.Context, rows []domain.WeatherCondition) error {
	return publish(ctx, w, "weather", rows, func(c domain.WeatherCondition) (string, []kafkago.Header) {
		return strconv.FormatInt(c.Key, 10), nil
	})
}

// WritePerformances keys each message by athlete so one athlete's results land
// on the same partition.
func (w *Writer) WritePerformances(ctx context.Context, rows []domain.Performance) error {
	return publish(ctx, w, "performances", rows, func(p domain.Performance) (string, []kafkago.Header) {
		return strconv.FormatInt(p.AthleteKey, 10), []kafkago.Header{
			{Key: HeaderLoadBatchID, Value: []byte(p.LoadBatchID)},
			{Key: HeaderLoadedAt, Value: []byte(p.LoadedAt.Format(time.RFC3339))},
		}
	})
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// publish sends rows in chunks of batchSize in a single WriteMessages call each.
func publish[T any](ctx context.Context, w *Writer, table string, rows []T, keyOf func(T) (string, []kafkago.Header)) error {
	if len(rows) == 0 {
		return nil
	}
	size := w.batchSize
	if size <= 0 {
		size = len(rows)
	}
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		msgs := make([]kafkago.Message, 0, end-start)
		for i := start; i < end; i++ {
			msg, err := serializeToMessage(table, rows[i], keyOf)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish %s rows %d-%d: %w", table, start, end-1, err)
		}
	}
	w.logger.Debug("rows published", "table", table, "count", len(rows))
	return nil
}

func serializeToMessage[T any](table string, row T, keyOf func(T) (string, []kafkago.Header)) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s row: %w", table, err)
	}
	key, extra := keyOf(row)
	headers := append([]kafkago.Header{{Key: HeaderTable, Value: []byte(table)}}, extra...)
	return kafkago.Message{
		Key:     []byte(key),
		Value:   data,
		Headers: headers,
	}, nil
}
