package domain

import (
	"errors"
	"strings"
)

// PerformanceQualityScore is the data-quality score of every fact row.
const PerformanceQualityScore = 8

// Rejection reasons reported in PerformanceStats.
const (
	RejectMissingAthlete  = "missing_athlete"
	RejectMissingEvent    = "missing_event"
	RejectNoResult        = "no_result"
	RejectMalformedResult = "malformed_result"
	RejectOutOfRange      = "out_of_range"
	RejectUnrealistic     = "unrealistic"
	RejectMalformedDate   = "malformed_date"
)

// PerformanceOptions tunes fact assembly.
type PerformanceOptions struct {
	MinResult            float64
	MaxResult            float64
	DropUnmatchedWeather bool
	BatchID              string
}

// References are the dimension rows performances are joined against.
type References struct {
	Athletes []Athlete
	Events   []Event
	Venues   []Venue
	Weather  []WeatherCondition
	Matcher  *WeatherMatcher
}

// PerformanceStats describes what happened to every staged row.
type PerformanceStats struct {
	Rows             int
	Emitted          int
	Duplicates       int
	Rejected         map[string]int
	Outliers         map[string]int // keyed by "event|gender"
	WeatherMatched   int
	WeatherUnmatched int
	DroppedNoWeather int
	ByMethod         map[string]int
	Weather          WeatherMatchStats
}

// RejectedTotal sums every rejection reason.
func (s PerformanceStats) RejectedTotal() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

// OutlierRate is the share of parsed rows rejected by the realism filter,
// in percent.
func (s PerformanceStats) OutlierRate() float64 {
	outliers := s.Rejected[RejectUnrealistic]
	checked := s.Emitted + s.Duplicates + s.DroppedNoWeather + outliers
	if checked == 0 {
		return 0
	}
	return 100 * float64(outliers) / float64(checked)
}

// pending is a row that passed parsing and filtering but still waits for
// its weather key.
type pending struct {
	perf     Performance
	event    Event
	gender   Gender
	venue    Venue
	query    WeatherQuery
	category string
}

type performanceKey struct {
	athlete, event, venue, weather, date int64
}

// BuildPerformances runs every staged row through parse, realism filter,
// score and adjust. Rows missing an athlete or an event are dropped; venue,
// weather and date fall back to their sentinels.
func BuildPerformances(rows []StagedPerformance, refs References, scorer *Scorer, opts PerformanceOptions) ([]Performance, PerformanceStats) {
	stats := PerformanceStats{
		Rows:     len(rows),
		Rejected: make(map[string]int),
		Outliers: make(map[string]int),
		ByMethod: make(map[string]int),
	}

	athletes := make(map[string]Athlete, len(refs.Athletes))
	for _, a := range refs.Athletes {
		athletes[a.NameKey] = a
	}
	events := make(map[string]Event, len(refs.Events))
	for _, ev := range refs.Events {
		events[ev.Name] = ev
	}
	venues := make(map[string]Venue, len(refs.Venues))
	for _, v := range refs.Venues {
		venues[v.RawName] = v
	}
	weather := make(map[int64]WeatherCondition, len(refs.Weather))
	for _, w := range refs.Weather {
		weather[w.Key] = w
	}

	loadedAt := loadTimestamp()
	candidates := make([]pending, 0, len(rows))
	queries := make([]WeatherQuery, 0, len(rows))

	for _, r := range rows {
		if strings.TrimSpace(r.AthleteName) == "" {
			stats.Rejected[RejectMissingAthlete]++
			continue
		}
		athlete, ok := athletes[NormalizeAthleteName(r.AthleteName)]
		if !ok {
			stats.Rejected[RejectMissingAthlete]++
			continue
		}
		ev, ok := events[collapseSpaces(r.EventName)]
		if !ok {
			stats.Rejected[RejectMissingEvent]++
			continue
		}

		result, err := ParseResult(r.Result)
		if err == nil {
			err = CheckSanity(result, opts.MinResult, opts.MaxResult)
		}
		if err != nil {
			stats.Rejected[rejectReason(err)]++
			continue
		}

		gender := scoringGender(athlete, ev)
		if err := scorer.CheckRealism(ev, gender, result); err != nil {
			stats.Rejected[RejectUnrealistic]++
			stats.Outliers[ev.StandardizedName+"|"+string(gender)]++
			continue
		}

		date, hasDate, err := ParseCompetitionDate(r.CompetitionDate)
		if err != nil {
			stats.Rejected[RejectMalformedDate]++
			continue
		}

		venue, ok := venues[strings.TrimSpace(r.VenueName)]
		if !ok {
			venue = UnknownVenue()
		}

		p := pending{
			event:    ev,
			gender:   gender,
			venue:    venue,
			category: DurationCategory(ev),
			perf: Performance{
				AthleteKey:   athlete.Key,
				EventKey:     ev.Key,
				VenueKey:     venue.Key,
				WeatherKey:   UnknownKey,
				DateKey:      UnknownDateKey,
				ResultValue:  result,
				Rank:         ParsePosition(r.Position),
				Wind:         ParseWind(r.Wind),
				QualityScore: PerformanceQualityScore,
				Source:       strings.TrimSpace(r.Source),
				LoadBatchID:  opts.BatchID,
				LoadedAt:     loadedAt,
			},
		}
		p.perf.HasWindData = p.perf.Wind != nil
		if hasDate {
			d := date
			p.perf.CompetitionDate = &d
			p.perf.DateKey = DateKey(date)
			p.query = WeatherQuery{City: venue.WeatherCity(), Month: int(date.Month())}
		} else {
			p.query = WeatherQuery{City: venue.WeatherCity()}
		}
		candidates = append(candidates, p)
		queries = append(queries, p.query)
	}

	var weatherKeys map[WeatherQuery]int64
	if refs.Matcher != nil {
		weatherKeys, stats.Weather = refs.Matcher.MatchAll(queries)
	}

	out := make([]Performance, 0, len(candidates))
	seen := make(map[performanceKey]struct{}, len(candidates))
	for _, p := range candidates {
		var temperature *float64
		if key, ok := weatherKeys[p.query]; ok {
			if w, ok := weather[key]; ok {
				p.perf.WeatherKey = w.Key
				t := w.TemperatureC
				temperature = &t
			}
		}

		k := performanceKey{
			athlete: p.perf.AthleteKey,
			event:   p.perf.EventKey,
			venue:   p.perf.VenueKey,
			weather: p.perf.WeatherKey,
			date:    p.perf.DateKey,
		}
		if _, dup := seen[k]; dup {
			stats.Duplicates++
			continue
		}
		seen[k] = struct{}{}

		if p.perf.WeatherKey == UnknownKey {
			stats.WeatherUnmatched++
			if opts.DropUnmatchedWeather {
				stats.DroppedNoWeather++
				continue
			}
		} else {
			stats.WeatherMatched++
		}

		p.perf.PerformanceScore, p.perf.ScoreMethod = scorer.Score(p.event, p.gender, p.perf.ResultValue)
		p.perf.AltitudeAdjustedResult = AltitudeAdjust(p.perf.ResultValue, p.venue.Altitude, p.category)
		p.perf.TemperatureImpactFactor = TemperatureImpact(temperature, p.category)
		p.perf.EnvironmentalBonus = EnvironmentalBonus(p.venue.Altitude, temperature, p.category)
		stats.ByMethod[p.perf.ScoreMethod]++
		out = append(out, p.perf)
	}

	ApplyPerformanceAdvantage(out)
	stats.Emitted = len(out)
	return out, stats
}

// scoringGender prefers the athlete's gender and falls back to the gender
// implied by the event itself.
func scoringGender(a Athlete, ev Event) Gender {
	if a.Gender == GenderFemale || a.Gender == GenderMale {
		return a.Gender
	}
	switch Gender(ev.Gender) {
	case GenderFemale, GenderMale:
		return Gender(ev.Gender)
	}
	return GenderUnknown
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNoResult):
		return RejectNoResult
	case errors.Is(err, ErrResultOutOfRange):
		return RejectOutOfRange
	default:
		return RejectMalformedResult
	}
}
