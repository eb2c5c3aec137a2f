package domain

import (
	"math"
)

// Score bounds and the neutral score given when a formula misbehaves.
const (
	MinScore      = 0.0
	MaxScore      = 1400.0
	FallbackScore = 500.0
)

// Score methods recorded on each performance.
const (
	ScoreMethodCoefficients = "coefficients"
	ScoreMethodLegacy       = "legacy"
	ScoreMethodFallback     = "fallback"
)

type coefficientKey struct {
	event  string
	gender Gender
}

// Bounds is the plausible result window of an event and gender.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the window, inclusive.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Scorer converts results to points with event- and gender-specific
// coefficients.
type Scorer struct {
	coefficients map[coefficientKey]Coefficient
	margin       float64
}

// NewScorer indexes the coefficient table by standardized event name.
func NewScorer(t Tables) *Scorer {
	s := &Scorer{
		coefficients: make(map[coefficientKey]Coefficient, len(t.Coefficients)),
		margin:       t.RealismMargin,
	}
	for _, c := range t.Coefficients {
		s.coefficients[coefficientKey{event: StandardizeEventName(c.Event), gender: c.Gender}] = c
	}
	return s
}

// Coefficient returns the constants for an event and gender.
func (s *Scorer) Coefficient(ev Event, gender Gender) (Coefficient, bool) {
	c, ok := s.coefficients[coefficientKey{event: ev.StandardizedName, gender: gender}]
	return c, ok
}

// RealismBounds derives the plausible window from the world record: a time
// may not beat the record nor be more than margin slower; a distance may not
// exceed the record nor fall more than margin short.
func (s *Scorer) RealismBounds(ev Event, gender Gender) (Bounds, bool) {
	c, ok := s.Coefficient(ev, gender)
	if !ok || c.Record <= 0 {
		return Bounds{}, false
	}
	if ev.Unit == UnitSeconds {
		return Bounds{Min: c.Record, Max: c.Record * (1 + s.margin)}, true
	}
	return Bounds{Min: c.Record * (1 - s.margin), Max: c.Record}, true
}

// CheckRealism rejects results outside the event's bounds. Events without
// bounds pass.
func (s *Scorer) CheckRealism(ev Event, gender Gender, result float64) error {
	b, ok := s.RealismBounds(ev, gender)
	if !ok || b.Contains(result) {
		return nil
	}
	return ErrUnrealisticResult
}

// Score returns the points of a result and the method that produced them.
func (s *Scorer) Score(ev Event, gender Gender, result float64) (float64, string) {
	c, ok := s.Coefficient(ev, gender)
	if !ok {
		return guardScore(LegacyScore(ev, result), ScoreMethodLegacy)
	}
	return guardScore(coefficientScore(c, ev.Unit, result), ScoreMethodCoefficients)
}

// coefficientScore applies the power law. Time events score the absolute
// distance from B; distance results short of B earn the minimum.
func coefficientScore(c Coefficient, unit string, result float64) float64 {
	if unit == UnitSeconds {
		return c.A * math.Pow(math.Abs(c.B-result), c.C)
	}
	diff := result - c.B
	if diff <= 0 {
		return MinScore
	}
	return c.A * math.Pow(diff, c.C)
}

// LegacyScore is the linear heuristic for events without coefficients.
func LegacyScore(ev Event, result float64) float64 {
	if ev.Unit == UnitSeconds {
		var score float64
		switch ev.StandardizedName {
		case "100m":
			score = 1000 - (result-9.5)*200
		case "200m":
			score = 1000 - (result-19.0)*100
		case "Mile":
			score = 1000 - (result-220)*5
		case "Marathon":
			score = 1000 - (result-7260)*0.5
		default:
			score = 1000 - result*2
		}
		return math.Max(0, score)
	}

	var score float64
	switch ev.StandardizedName {
	case "Shot Put":
		score = result * 50
	case "Javelin Throw":
		score = result * 12.5
	case "High Jump":
		score = result * 435
	case "Long Jump":
		score = result * 118
	default:
		score = result * 25
	}
	return math.Min(1000, score)
}

func guardScore(score float64, method string) (float64, string) {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return FallbackScore, ScoreMethodFallback
	}
	return clamp(score, MinScore, MaxScore), method
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
