package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSource(t *testing.T) (*Source, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := sqlx.NewDb(sqlDB, "postgres")
	return NewSource(db, slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func TestSource_Performances(t *testing.T) {
	src, mock := newMockSource(t)

	rows := sqlmock.NewRows([]string{
		"athlete_name", "event_name", "venue_name", "result", "wind",
		"position", "competition_date", "nationality", "gender",
	}).
		AddRow("Usain BOLT", "100 Metres", "Olympiastadion, Berlin (GER)", "9.58", "+0.9", "1", "16 AUG 2009", "JAM", "M").
		AddRow("Yulimar ROJAS", "Triple Jump", "Tokyo (JPN)", "15.67", "", "1f1", "01 AUG 2021", "VEN", "F")
	mock.ExpectQuery(`FROM staging\.raw_world_athletics`).WillReturnRows(rows)

	got, err := src.Performances(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Usain BOLT", got[0].AthleteName)
	assert.Equal(t, "9.58", got[0].Result)
	assert.Equal(t, "16 AUG 2009", got[0].CompetitionDate)
	assert.Equal(t, SourceTagAthletics, got[0].Source)
	assert.Equal(t, "1f1", got[1].Position)
	assert.Empty(t, got[1].Wind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Gazetteer_NullCoordinates(t *testing.T) {
	src, mock := newMockSource(t)

	rows := sqlmock.NewRows([]string{"city", "country", "latitude", "longitude"}).
		AddRow("Berlin", "Germany", 52.52, 13.405).
		AddRow("Atlantis", "", nil, nil)
	mock.ExpectQuery(`FROM staging\.raw_cities`).WillReturnRows(rows)

	got, err := src.Gazetteer(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Latitude)
	assert.InDelta(t, 52.52, *got[0].Latitude, 1e-9)
	assert.Nil(t, got[0].Altitude)
	assert.Nil(t, got[1].Latitude)
	assert.Nil(t, got[1].Longitude)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Temperatures(t *testing.T) {
	src, mock := newMockSource(t)

	rows := sqlmock.NewRows([]string{"city", "country", "year", "month", "avg_temperature"}).
		AddRow("Berlin", "Germany", 2009, 8, 66.2)
	mock.ExpectQuery(`FROM staging\.raw_temperature`).WillReturnRows(rows)

	got, err := src.Temperatures(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2009, got[0].Year)
	assert.Equal(t, 8, got[0].Month)
	assert.InDelta(t, 66.2, got[0].AvgTemperature, 1e-9)
	assert.Equal(t, SourceTagTemperature, got[0].Source)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_QueryErrors(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name    string
		pattern string
		call    func(*Source) error
		want    string
	}{
		{
			name:    "performances",
			pattern: `raw_world_athletics`,
			call:    func(s *Source) error { _, err := s.Performances(context.Background()); return err },
			want:    "select staged performances",
		},
		{
			name:    "gazetteer",
			pattern: `raw_cities`,
			call:    func(s *Source) error { _, err := s.Gazetteer(context.Background()); return err },
			want:    "select staged cities",
		},
		{
			name:    "temperatures",
			pattern: `raw_temperature`,
			call:    func(s *Source) error { _, err := s.Temperatures(context.Background()); return err },
			want:    "select staged temperatures",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, mock := newMockSource(t)
			mock.ExpectQuery(tt.pattern).WillReturnError(boom)

			err := tt.call(src)
			require.Error(t, err)
			require.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
