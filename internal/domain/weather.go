package domain

import (
	"sort"
	"strings"
	"time"
)

// MissingTemperature is the marker the temperature source uses for a
// missing reading.
const MissingTemperature = -99.0

// fahrenheitMeanThreshold: a dataset whose mean monthly temperature exceeds
// this is taken to be in Fahrenheit.
const fahrenheitMeanThreshold = 40.0

// EstimateSourcePrefix tags synthetic climate rows.
const EstimateSourcePrefix = "Athletics_Estimate_"

// WeatherSettings filters raw temperature readings.
type WeatherSettings struct {
	MinYear int
	MaxYear int
}

// WeatherStats describes the weather table build.
type WeatherStats struct {
	Readings            int
	Ignored             int
	ActualRows          int
	EstimatedRows       int
	FahrenheitConverted bool
}

// TemperatureCategory buckets a Celsius temperature.
func TemperatureCategory(c float64) string {
	switch {
	case c < 10:
		return "Cold"
	case c < 18:
		return "Cool"
	case c < 24:
		return "Moderate"
	case c < 30:
		return "Warm"
	default:
		return "Hot"
	}
}

// Season maps a month (1-12) to its northern-hemisphere season.
func Season(month int) string {
	switch month {
	case 12, 1, 2:
		return "Winter"
	case 3, 4, 5:
		return "Spring"
	case 6, 7, 8:
		return "Summer"
	case 9, 10, 11:
		return "Fall"
	default:
		return Unknown
	}
}

// MonthName returns the English month name, or Unknown outside 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return Unknown
	}
	return time.Month(month).String()
}

type cityMonthSource struct {
	city   string
	month  int
	source string
}

// BuildWeather aggregates readings into one row per (city, month, source),
// converts Fahrenheit datasets, and synthesizes estimates for needed cities
// absent from the source. A nil needed set synthesizes every estimate.
func BuildWeather(readings []TemperatureReading, t Tables, settings WeatherSettings, needed map[string]bool) ([]WeatherCondition, WeatherStats) {
	aliases := aliasIndex(t.CityAliases)
	stats := WeatherStats{Readings: len(readings)}

	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[cityMonthSource]*acc)
	for _, r := range readings {
		if r.Month < 1 || r.Month > 12 || r.AvgTemperature <= MissingTemperature {
			stats.Ignored++
			continue
		}
		if r.Year != 0 && (r.Year < settings.MinYear || r.Year > settings.MaxYear) {
			stats.Ignored++
			continue
		}
		city := StandardizeCity(r.City, aliases)
		if city == UnknownName {
			stats.Ignored++
			continue
		}
		k := cityMonthSource{city: city, month: r.Month, source: r.Source}
		a, ok := sums[k]
		if !ok {
			a = &acc{}
			sums[k] = a
		}
		a.sum += r.AvgTemperature
		a.count++
	}

	rows := make([]WeatherCondition, 0, len(sums)+12*len(t.ClimateEstimates))
	var total float64
	actualCities := make(map[string]bool)
	for k, a := range sums {
		mean := a.sum / float64(a.count)
		total += mean
		actualCities[k.city] = true
		rows = append(rows, WeatherCondition{
			City:          k.city,
			Month:         k.month,
			TemperatureC:  mean,
			HasActualData: true,
			Source:        k.source,
		})
	}
	if len(rows) > 0 && total/float64(len(rows)) > fahrenheitMeanThreshold {
		stats.FahrenheitConverted = true
		for i := range rows {
			rows[i].TemperatureC = (rows[i].TemperatureC - 32) * 5 / 9
		}
	}
	stats.ActualRows = len(rows)

	for _, est := range t.ClimateEstimates {
		city := StandardizeCity(est.City, aliases)
		if actualCities[city] || (needed != nil && !needed[city]) {
			continue
		}
		for i, temp := range est.Temperatures {
			if i >= 12 {
				break
			}
			rows = append(rows, WeatherCondition{
				City:         city,
				Month:        i + 1,
				TemperatureC: temp,
				Source:       EstimateSourcePrefix + est.Climate,
			})
			stats.EstimatedRows++
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.City != b.City {
			return a.City < b.City
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Source < b.Source
	})
	for i := range rows {
		rows[i].Key = int64(i + 1)
		rows[i].MonthName = MonthName(rows[i].Month)
		rows[i].Category = TemperatureCategory(rows[i].TemperatureC)
		rows[i].Season = Season(rows[i].Month)
	}
	return rows, stats
}

// WeatherQuery asks for the temperature of a standardized city in a month.
type WeatherQuery struct {
	City  string
	Month int
}

// WeatherMatchStats counts distinct (city, month) pairs by outcome.
type WeatherMatchStats struct {
	Pairs     int
	Exact     int
	Similar   int
	Unmatched int
}

// MatchRate is the share of pairs matched by either strategy, in percent.
func (s WeatherMatchStats) MatchRate() float64 {
	if s.Pairs == 0 {
		return 0
	}
	return 100 * float64(s.Exact+s.Similar) / float64(s.Pairs)
}

type weatherCandidate struct {
	city string
	key  int64
}

// WeatherMatcher resolves (city, month) pairs to weather keys.
type WeatherMatcher struct {
	exact     map[WeatherQuery]int64
	byMonth   map[int][]weatherCandidate
	aliases   map[string]string
	threshold float64
}

// NewWeatherMatcher indexes the weather table. When a city and month appear
// under several sources the lowest key wins.
func NewWeatherMatcher(conditions []WeatherCondition, t Tables, threshold float64) *WeatherMatcher {
	m := &WeatherMatcher{
		exact:     make(map[WeatherQuery]int64, len(conditions)),
		byMonth:   make(map[int][]weatherCandidate),
		aliases:   aliasIndex(t.CityAliases),
		threshold: threshold,
	}
	sorted := make([]WeatherCondition, len(conditions))
	copy(sorted, conditions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	for _, c := range sorted {
		if c.Key == UnknownKey {
			continue
		}
		q := WeatherQuery{City: cityMatchKey(StandardizeCity(c.City, m.aliases)), Month: c.Month}
		if _, ok := m.exact[q]; ok {
			continue
		}
		m.exact[q] = c.Key
		m.byMonth[c.Month] = append(m.byMonth[c.Month], weatherCandidate{city: q.City, key: c.Key})
	}
	for month := range m.byMonth {
		candidates := m.byMonth[month]
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].city < candidates[j].city })
	}
	return m
}

// MatchAll resolves every query. The exact dictionary runs first over all
// pairs; similarity is computed once per distinct unmatched pair. Queries
// missing from the returned map matched nothing.
func (m *WeatherMatcher) MatchAll(queries []WeatherQuery) (map[WeatherQuery]int64, WeatherMatchStats) {
	result := make(map[WeatherQuery]int64, len(queries))
	var stats WeatherMatchStats
	var unmatched []WeatherQuery

	seen := make(map[WeatherQuery]bool, len(queries))
	for _, q := range queries {
		if seen[q] {
			continue
		}
		seen[q] = true
		stats.Pairs++
		if key, ok := m.exact[m.normalize(q)]; ok {
			result[q] = key
			stats.Exact++
			continue
		}
		unmatched = append(unmatched, q)
	}

	for _, q := range unmatched {
		if key, ok := m.similar(m.normalize(q)); ok {
			result[q] = key
			stats.Similar++
			continue
		}
		stats.Unmatched++
	}
	return result, stats
}

func (m *WeatherMatcher) normalize(q WeatherQuery) WeatherQuery {
	return WeatherQuery{City: cityMatchKey(StandardizeCity(q.City, m.aliases)), Month: q.Month}
}

// similar picks the highest scoring city for the month. Candidates are
// visited in sorted order and only a strictly better score replaces the
// current best, so ties resolve to the alphabetically first city.
func (m *WeatherMatcher) similar(q WeatherQuery) (int64, bool) {
	if q.Month < 1 || q.Month > 12 || q.City == UnknownName {
		return 0, false
	}
	var bestKey int64
	best := -1.0
	for _, c := range m.byMonth[q.Month] {
		if score := CitySimilarity(q.City, c.city); score > best {
			best, bestKey = score, c.key
		}
	}
	if best < m.threshold {
		return 0, false
	}
	return bestKey, true
}

// CitySimilarity scores two city keys: 100 when equal, 90 when one contains
// the other, otherwise the Jaccard index of their character sets scaled to
// 0-80.
func CitySimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 90
	}
	setA := runeSet(a)
	setB := runeSet(b)
	intersection := 0
	for r := range setA {
		if setB[r] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union) * 80
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
