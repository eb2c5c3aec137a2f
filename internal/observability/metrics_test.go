package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.Rejections.WithLabelValues("unrealistic").Add(3)
	a.Outliers.WithLabelValues("100m", "M").Inc()

	assert.InDelta(t, 3, testutil.ToFloat64(a.Rejections.WithLabelValues("unrealistic")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.Outliers.WithLabelValues("100m", "M")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.Rejections.WithLabelValues("unrealistic")), 0)
}

func TestMetrics_RegisterOnFreshRegistry(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	for _, c := range m.collectors() {
		require.NoError(t, reg.Register(c))
	}

	m.PipelineRunning.Set(1)
	m.SinkWrites.WithLabelValues("store", "success").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "athletics_etl_pipeline_running")
	assert.Contains(t, names, "athletics_etl_sink_writes_total")
}
