package domain

import (
	"math"
	"sort"
)

const (
	minAdvantageGroup   = 10
	minAdvantageSample  = 8
	minAdvantageAverage = 10.0
	maxAdvantage        = 9999.0
)

type venueEvent struct {
	venue, event int64
}

// ApplyPerformanceAdvantage sets each row's percentage above or below the
// typical score of its venue and event. Groups that are too small, or too
// small once IQR outliers are removed, leave the advantage at zero. Rows at
// the unknown venue are never compared.
func ApplyPerformanceAdvantage(perfs []Performance) {
	groups := make(map[venueEvent][]int)
	for i := range perfs {
		perfs[i].PerformanceAdvantage = 0
		if perfs[i].VenueKey == UnknownKey {
			continue
		}
		k := venueEvent{venue: perfs[i].VenueKey, event: perfs[i].EventKey}
		groups[k] = append(groups[k], i)
	}

	for _, idx := range groups {
		if len(idx) < minAdvantageGroup {
			continue
		}
		scores := make([]float64, len(idx))
		for j, i := range idx {
			scores[j] = perfs[i].PerformanceScore
		}
		avg, ok := typicalScore(scores)
		if !ok {
			continue
		}
		for _, i := range idx {
			adv := (perfs[i].PerformanceScore - avg) / avg * 100
			perfs[i].PerformanceAdvantage = clamp(adv, -maxAdvantage, maxAdvantage)
		}
	}
}

// typicalScore is the mean after dropping values beyond 1.5 IQR of the
// quartiles.
func typicalScore(scores []float64) (float64, bool) {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	q1, q3 := Quantile(sorted, 0.25), Quantile(sorted, 0.75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	var sum float64
	var n int
	for _, s := range sorted {
		if s >= lo && s <= hi {
			sum += s
			n++
		}
	}
	if n < minAdvantageSample {
		return 0, false
	}
	avg := sum / float64(n)
	if avg <= minAdvantageAverage || math.IsNaN(avg) {
		return 0, false
	}
	return avg, true
}

// Quantile linearly interpolates the q-th quantile of sorted values.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}
