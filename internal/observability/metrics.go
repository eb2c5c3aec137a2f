package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "athletics_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for a reconciliation run.
type Metrics struct {
	RowsRead        *prometheus.CounterVec // labels: input={performances,gazetteer,temperatures}
	StageRows       *prometheus.GaugeVec   // labels: stage={athletes,events,venues,weather,performances}
	Rejections      *prometheus.CounterVec // labels: reason
	Outliers        *prometheus.CounterVec // labels: event, gender
	Duplicates      prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Match quality.
	VenueMatches     *prometheus.CounterVec // labels: source={gazetteer_exact,gazetteer_city,geocoder,unmatched}
	WeatherMatches   *prometheus.CounterVec // labels: outcome={exact,similar,unmatched}
	VenueMatchRate   prometheus.Gauge
	WeatherMatchRate prometheus.Gauge
	OutlierRate      prometheus.Gauge

	// Timing and sink health.
	StageDuration *prometheus.HistogramVec // labels: stage
	RunDuration   prometheus.Histogram
	SinkWrites    *prometheus.CounterVec // labels: sink, outcome={success,retry,error}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Staged rows read from the source, by input.",
		}, []string{"input"}),
		StageRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows",
			Help:      "Rows produced by the last run of each stage.",
		}, []string{"stage"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "performance_rejections_total",
			Help:      "Staged performances excluded from the fact table, by reason.",
		}, []string{"reason"}),
		Outliers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "performance_outliers_total",
			Help:      "Results outside the world-record realism bounds.",
		}, []string{"event", "gender"}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "performance_duplicates_total",
			Help:      "Performances collapsed onto an earlier identical row.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a reconciliation run is active, 0 otherwise.",
		}),
		VenueMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "venue_matches_total",
			Help:      "Venue labels by geographic resolution source.",
		}, []string{"source"}),
		WeatherMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_matches_total",
			Help:      "Distinct city-month weather lookups by outcome.",
		}, []string{"outcome"}),
		VenueMatchRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "venue_match_rate_percent",
			Help:      "Share of venue labels placed by the gazetteer or geocoder.",
		}),
		WeatherMatchRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weather_match_rate_percent",
			Help:      "Share of city-month lookups resolved to a weather row.",
		}),
		OutlierRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outlier_rate_percent",
			Help:      "Share of parsed results rejected by the realism filter.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each reconciliation stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"stage"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-reconcile-load run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		SinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Table writes per sink by outcome.",
		}, []string{"sink", "outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Forward geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoder fallback is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.StageRows,
		m.Rejections,
		m.Outliers,
		m.Duplicates,
		m.PipelineRunning,
		m.VenueMatches,
		m.WeatherMatches,
		m.VenueMatchRate,
		m.WeatherMatchRate,
		m.OutlierRate,
		m.StageDuration,
		m.RunDuration,
		m.SinkWrites,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
