package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, raw string) Event {
	t.Helper()
	ev, ok := ClassifyEvent(raw)
	require.True(t, ok, raw)
	return ev
}

func TestScorer_WorldRecordsScoreNear1200(t *testing.T) {
	s := NewScorer(testTables())

	tests := []struct {
		event  string
		gender Gender
		result float64
	}{
		{"100 Metres", GenderMale, 9.58},
		{"100 Metres", GenderFemale, 10.49},
		{"110 Metres Hurdles", GenderMale, 12.8},
		{"Long Jump", GenderMale, 8.95},
	}
	for _, tt := range tests {
		t.Run(tt.event+"/"+string(tt.gender), func(t *testing.T) {
			score, method := s.Score(mustEvent(t, tt.event), tt.gender, tt.result)
			assert.Equal(t, ScoreMethodCoefficients, method)
			assert.InDelta(t, 1200, score, 1)
		})
	}
}

func TestScorer_BaselineSide(t *testing.T) {
	s := NewScorer(testTables())

	c, ok := s.Coefficient(mustEvent(t, "100 Metres"), GenderMale)
	require.True(t, ok)
	score, method := s.Score(mustEvent(t, "100 Metres"), GenderMale, c.B+2)
	assert.Equal(t, ScoreMethodCoefficients, method)
	assert.InDelta(t, c.A*math.Pow(2, c.C), score, 1e-9)

	score, _ = s.Score(mustEvent(t, "Long Jump"), GenderMale, 2.0)
	assert.Equal(t, MinScore, score)
}

func TestScorer_ScoreAlwaysInRange(t *testing.T) {
	s := NewScorer(testTables())
	sprint := mustEvent(t, "100 Metres")
	jump := mustEvent(t, "Long Jump")

	for r := 0.5; r < 100; r += 0.37 {
		score, _ := s.Score(sprint, GenderMale, r)
		assert.GreaterOrEqual(t, score, MinScore)
		assert.LessOrEqual(t, score, MaxScore)

		score, _ = s.Score(jump, GenderMale, r)
		assert.GreaterOrEqual(t, score, MinScore)
		assert.LessOrEqual(t, score, MaxScore)
	}
}

func TestScorer_Legacy(t *testing.T) {
	s := NewScorer(testTables())

	tests := []struct {
		event  string
		gender Gender
		result float64
		want   float64
	}{
		{"100 Metres", GenderUnknown, 9.58, 984},
		{"200 Metres", GenderMale, 19.5, 950},
		{"Mile", GenderMale, 230, 950},
		{"Marathon", GenderMale, 7360, 950},
		{"1500 Metres", GenderMale, 210, 580},
		{"Shot Put", GenderMale, 21, 1000},
		{"Javelin Throw", GenderMale, 80, 1000},
		{"High Jump", GenderMale, 2.0, 870},
		{"Discus Throw", GenderMale, 30, 750},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			score, method := s.Score(mustEvent(t, tt.event), tt.gender, tt.result)
			assert.Equal(t, ScoreMethodLegacy, method)
			assert.InDelta(t, tt.want, score, 1e-6)
		})
	}
}

func TestScorer_FallbackAndClamp(t *testing.T) {
	tables := Tables{Coefficients: []Coefficient{
		{Event: "100m", Gender: GenderMale, A: math.Inf(1), B: 18, C: 1.81},
		{Event: "200m", Gender: GenderMale, A: 1e9, B: 38, C: 1.81},
	}}
	s := NewScorer(tables)

	score, method := s.Score(mustEvent(t, "100 Metres"), GenderMale, 10)
	assert.Equal(t, ScoreMethodFallback, method)
	assert.Equal(t, FallbackScore, score)

	score, method = s.Score(mustEvent(t, "200 Metres"), GenderMale, 20)
	assert.Equal(t, ScoreMethodCoefficients, method)
	assert.Equal(t, MaxScore, score)
}

func TestScorer_RealismBounds(t *testing.T) {
	s := NewScorer(testTables())
	sprint := mustEvent(t, "100 Metres")
	jump := mustEvent(t, "Long Jump")

	b, ok := s.RealismBounds(sprint, GenderMale)
	require.True(t, ok)
	assert.Equal(t, 9.58, b.Min)
	assert.InDelta(t, 11.017, b.Max, 1e-9)

	b, ok = s.RealismBounds(jump, GenderMale)
	require.True(t, ok)
	assert.InDelta(t, 7.6075, b.Min, 1e-9)
	assert.Equal(t, 8.95, b.Max)

	_, ok = s.RealismBounds(sprint, GenderUnknown)
	assert.False(t, ok)

	assert.NoError(t, s.CheckRealism(sprint, GenderMale, 9.58))
	assert.NoError(t, s.CheckRealism(sprint, GenderMale, 10.5))
	assert.ErrorIs(t, s.CheckRealism(sprint, GenderMale, 9.0), ErrUnrealisticResult)
	assert.ErrorIs(t, s.CheckRealism(sprint, GenderMale, 12.0), ErrUnrealisticResult)
	assert.ErrorIs(t, s.CheckRealism(jump, GenderMale, 9.5), ErrUnrealisticResult)
	assert.NoError(t, s.CheckRealism(sprint, GenderUnknown, 5.0))
	assert.NoError(t, s.CheckRealism(mustEvent(t, "Mile"), GenderMale, 100))
}
