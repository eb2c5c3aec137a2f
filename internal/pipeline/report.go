package pipeline

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/igor224659/athletics-dw/internal/observability"
)

// Report summarizes one run: input sizes, the statistics of every stage and
// the data-quality counts that never surface as errors.
type Report struct {
	BatchID      string                  `json:"load_batch_id"`
	Staged       int                     `json:"staged"`
	Gazetteer    int                     `json:"gazetteer"`
	Temperatures int                     `json:"temperatures"`
	Events       domain.EventStats       `json:"events"`
	Athletes     domain.AthleteStats     `json:"athletes"`
	Venues       domain.VenueStats       `json:"venues"`
	Weather      domain.WeatherStats     `json:"weather"`
	Performances domain.PerformanceStats `json:"performances"`
	Duration     time.Duration           `json:"duration_ns"`
}

// Log writes the run summary, then one warning per event/gender with outliers.
func (r Report) Log(logger *slog.Logger) {
	perf := r.Performances
	logger.Info("pipeline finished",
		"staged", r.Staged,
		"events", r.Events.Distinct-r.Events.Excluded,
		"events_excluded", r.Events.Excluded,
		"athletes", r.Athletes.Athletes,
		"athlete_duplicates", r.Athletes.Duplicates,
		"venues", r.Venues.Labels,
		"venue_match_rate", r.Venues.MatchRate(),
		"weather_rows", r.Weather.ActualRows+r.Weather.EstimatedRows,
		"weather_estimated", r.Weather.EstimatedRows,
		"weather_match_rate", perf.Weather.MatchRate(),
		"performances", perf.Emitted,
		"rejected", perf.RejectedTotal(),
		"duplicates", perf.Duplicates,
		"outlier_rate", perf.OutlierRate(),
		"duration", r.Duration,
	)
	if r.Weather.FahrenheitConverted {
		logger.Info("temperature source converted from fahrenheit")
	}
	for _, reason := range sortedKeys(perf.Rejected) {
		logger.Info("performances rejected", "reason", reason, "count", perf.Rejected[reason])
	}
	for _, key := range sortedKeys(perf.Outliers) {
		event, gender := splitOutlierKey(key)
		logger.Warn("unrealistic results excluded", "event", event, "gender", gender, "count", perf.Outliers[key])
	}
}

// Export publishes the run's quality counts as metrics.
func (r Report) Export(m *observability.Metrics) {
	perf := r.Performances
	for reason, n := range perf.Rejected {
		m.Rejections.WithLabelValues(reason).Add(float64(n))
	}
	for key, n := range perf.Outliers {
		event, gender := splitOutlierKey(key)
		m.Outliers.WithLabelValues(event, gender).Add(float64(n))
	}
	m.Duplicates.Add(float64(perf.Duplicates))

	for source, n := range r.Venues.BySource {
		m.VenueMatches.WithLabelValues(source).Add(float64(n))
	}
	m.WeatherMatches.WithLabelValues("exact").Add(float64(perf.Weather.Exact))
	m.WeatherMatches.WithLabelValues("similar").Add(float64(perf.Weather.Similar))
	m.WeatherMatches.WithLabelValues("unmatched").Add(float64(perf.Weather.Unmatched))

	m.VenueMatchRate.Set(r.Venues.MatchRate())
	m.WeatherMatchRate.Set(perf.Weather.MatchRate())
	m.OutlierRate.Set(perf.OutlierRate())
}

func splitOutlierKey(key string) (event, gender string) {
	event, gender, _ = strings.Cut(key, "|")
	return event, gender
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
