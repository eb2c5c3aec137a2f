package main

import (
	"testing"

	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sprintTables() domain.Tables {
	return domain.Tables{
		Coefficients: []domain.Coefficient{
			{Event: "100m", Gender: domain.GenderMale, A: 25.3727, B: 18, C: 1.81, Record: 9.58},
		},
		RealismMargin: 0.15,
	}
}

func TestValidateReachability(t *testing.T) {
	tests := []struct {
		name       string
		coefs      []domain.Coefficient
		wantErrors int
		wantKept   int
	}{
		{
			name:     "standard name",
			coefs:    sprintTables().Coefficients,
			wantKept: 1,
		},
		{
			name: "duplicate",
			coefs: []domain.Coefficient{
				{Event: "100m", Gender: domain.GenderMale},
				{Event: "100m", Gender: domain.GenderMale},
			},
			wantErrors: 1,
			wantKept:   1,
		},
		{
			name:       "combined event",
			coefs:      []domain.Coefficient{{Event: "Decathlon", Gender: domain.GenderMale}},
			wantErrors: 1,
		},
		{
			name:       "unstandardized name",
			coefs:      []domain.Coefficient{{Event: "100 Metres", Gender: domain.GenderMale}},
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, kept := validateReachability(tt.coefs)
			assert.Len(t, p.errors, tt.wantErrors)
			assert.Len(t, kept, tt.wantKept)
		})
	}
}

func TestValidateRecordScores(t *testing.T) {
	tables := sprintTables()
	scorer := domain.NewScorer(tables)
	_, coefs := validateReachability(tables.Coefficients)
	require.Len(t, coefs, 1)

	assert.True(t, validateRecordScores(scorer, coefs, 1000, 1400).passed())

	tight := validateRecordScores(scorer, coefs, 1300, 1400)
	require.False(t, tight.passed())
	assert.Contains(t, tight.errors[0], "100m/M")
}

func TestValidateRealismWindow(t *testing.T) {
	tables := sprintTables()
	scorer := domain.NewScorer(tables)
	_, coefs := validateReachability(tables.Coefficients)

	p := validateRealismWindow(scorer, coefs, tables.RealismMargin)
	assert.True(t, p.passed(), "errors: %v", p.errors)
}
