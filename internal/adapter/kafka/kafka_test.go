package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/igor224659/athletics-dw/internal/config"
	"github.com/igor224659/athletics-dw/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	calls  [][]kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, msgs)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestWriter(batchSize int) (*Writer, *fakeWriter) {
	fw := &fakeWriter{}
	return &Writer{
		writer:    fw,
		batchSize: batchSize,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, fw
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestSerializeToMessage(t *testing.T) {
	event := domain.Event{Key: 7, Name: "100m", StandardizedName: "100m", Group: domain.GroupSprint}

	msg, err := serializeToMessage("events", event, func(e domain.Event) (string, []kafkago.Header) {
		return "7", nil
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("7"), msg.Key)
	assert.Contains(t, string(msg.Value), `"standardized_name":"100m"`)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "events", header(msg, HeaderTable))
}

func TestWritePerformances_Headers(t *testing.T) {
	w, fw := newTestWriter(50)
	loaded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := w.WritePerformances(context.Background(), []domain.Performance{
		{AthleteKey: 12, EventKey: 3, ResultValue: 9.58, LoadBatchID: "b-1", LoadedAt: loaded},
	})
	require.NoError(t, err)

	require.Len(t, fw.calls, 1)
	msg := fw.calls[0][0]
	assert.Equal(t, []byte("12"), msg.Key)
	assert.Equal(t, "performances", header(msg, HeaderTable))
	assert.Equal(t, "b-1", header(msg, HeaderLoadBatchID))
	assert.Equal(t, "2026-03-01T12:00:00Z", header(msg, HeaderLoadedAt))
	assert.Contains(t, string(msg.Value), `"result_value":9.58`)
}

func TestWriter_Batching(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		rows      int
		wantCalls []int
	}{
		{name: "single batch", batchSize: 50, rows: 3, wantCalls: []int{3}},
		{name: "exact multiple", batchSize: 2, rows: 4, wantCalls: []int{2, 2}},
		{name: "remainder", batchSize: 2, rows: 5, wantCalls: []int{2, 2, 1}},
		{name: "empty", batchSize: 2, rows: 0, wantCalls: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, fw := newTestWriter(tt.batchSize)
			athletes := make([]domain.Athlete, tt.rows)
			for i := range athletes {
				athletes[i] = domain.Athlete{Key: int64(i + 1), Name: "A"}
			}

			require.NoError(t, w.WriteAthletes(context.Background(), athletes))

			var sizes []int
			for _, call := range fw.calls {
				sizes = append(sizes, len(call))
			}
			assert.Equal(t, tt.wantCalls, sizes)
		})
	}
}

func TestWriter_PublishError(t *testing.T) {
	w, fw := newTestWriter(50)
	fw.err = errors.New("broker unavailable")

	err := w.WriteVenues(context.Background(), []domain.Venue{domain.UnknownVenue()})
	require.ErrorIs(t, err, fw.err)
	assert.Contains(t, err.Error(), "publish venues")
}

func TestWriter_SentinelKeys(t *testing.T) {
	w, fw := newTestWriter(50)
	require.NoError(t, w.WriteWeather(context.Background(), []domain.WeatherCondition{domain.UnknownWeather()}))
	require.Len(t, fw.calls, 1)
	assert.Equal(t, []byte("0"), fw.calls[0][0].Key)
	assert.Equal(t, "weather", header(fw.calls[0][0], HeaderTable))
}

func TestNewWriter_Config(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaSinkTopic: "reconciled-athletics", BatchSize: 25}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	kw, ok := w.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "reconciled-athletics", kw.Topic)
	assert.Equal(t, 25, w.batchSize)
	assert.Equal(t, "kafka", w.Name())
	require.NoError(t, w.Close())
}
