//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/igor224659/athletics-dw/internal/adapter/csvsource"
	kafkaadapter "github.com/igor224659/athletics-dw/internal/adapter/kafka"
	"github.com/igor224659/athletics-dw/internal/adapter/parquet"
	"github.com/igor224659/athletics-dw/internal/adapter/store"
	"github.com/igor224659/athletics-dw/internal/config"
	"github.com/igor224659/athletics-dw/internal/observability"
	"github.com/igor224659/athletics-dw/internal/pipeline"
	"github.com/igor224659/athletics-dw/internal/refdata"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testSinkTopic = "test-reconciled-athletics"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("athletics-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	}))
}

func fixture(name string) string {
	return filepath.Join("..", "adapter", "csvsource", "testdata", name)
}

// TestPipelineEndToEnd runs one reconciliation of the CSV fixtures into the
// sqlite store, the parquet exporter and a real Kafka topic, then checks that
// every sink received the same tables.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
		BatchSize:      50,
	}
	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()

	tables, err := refdata.Load("")
	require.NoError(t, err)

	st, err := store.Open(config.StoreSQLite, filepath.Join(t.TempDir(), "dw.db"), cfg.BatchSize, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	parquetDir := t.TempDir()
	exporter, err := parquet.NewExporter(parquetDir, logger)
	require.NoError(t, err)

	writer := kafkaadapter.NewWriter(cfg, logger)
	t.Cleanup(func() { _ = writer.Close() })

	source := csvsource.New(fixture("athletics.csv"), fixture("cities.csv"), fixture("temperatures.csv"), ';', logger)
	settings := pipeline.Settings{
		GeoMinConfidence:           85,
		WeatherSimilarityThreshold: 60,
		MinResult:                  0.1,
		MaxResult:                  50000,
	}
	settings.Weather.MinYear, settings.Weather.MaxYear = 1980, 2024

	fanout := pipeline.NewFanOut(pipeline.DefaultRetryPolicy(3), logger, metrics, st, exporter, writer)
	p := pipeline.New(source, pipeline.NewReconciler(tables, nil, settings, logger, metrics), fanout, logger, metrics)

	report, err := p.Run(ctx)
	require.NoError(t, err)
	require.Positive(t, report.Performances.Emitted)

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(report.Performances.Emitted), counts["reconciled_performances"])

	for _, name := range []string{parquet.AthletesFile, parquet.EventsFile, parquet.VenuesFile, parquet.WeatherFile, parquet.PerformancesFile} {
		_, err := os.Stat(filepath.Join(parquetDir, name))
		assert.NoError(t, err, "missing %s", name)
	}

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	var total int64
	for _, n := range counts {
		total += n
	}

	perTable := map[string]int64{}
	for i := int64(0); i < total; i++ {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from sink topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		table := headers[kafkaadapter.HeaderTable]
		perTable[table]++
		if table == "performances" {
			assert.Equal(t, report.BatchID, headers[kafkaadapter.HeaderLoadBatchID])
		}
	}

	for table, n := range perTable {
		assert.Equal(t, counts["reconciled_"+table], n, "table %s", table)
	}
}
