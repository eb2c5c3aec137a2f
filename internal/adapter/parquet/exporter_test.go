package parquet

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/igor224659/athletics-dw/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readBack[T any](t *testing.T, path string) []T {
	t.Helper()
	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(T), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	rows := make([]T, int(pr.GetNumRows()))
	require.NoError(t, pr.Read(&rows))
	return rows
}

func ptr[T any](v T) *T { return &v }

func TestExporter_WriteVenues(t *testing.T) {
	dir := t.TempDir()
	e, err := NewExporter(dir, discardLogger())
	require.NoError(t, err)

	venues := []domain.Venue{
		domain.UnknownVenue(),
		{
			Key: 1, RawName: "Olympiastadion, Berlin (GER)", CleanName: "Olympiastadion",
			City: "Berlin", Country: "Germany", CountryCode: "DE",
			Latitude: ptr(52.5147), Longitude: ptr(13.2395), Altitude: ptr(34.0),
			AltitudeCategory: "Sea Level", ClimateZone: "Temperate", QualityScore: 9, GeoSource: "gazetteer",
		},
	}
	require.NoError(t, e.WriteVenues(context.Background(), venues))

	got := readBack[venueRecord](t, filepath.Join(dir, VenuesFile))
	require.Len(t, got, 2)
	assert.Equal(t, int64(0), got[0].VenueKey)
	assert.Nil(t, got[0].Lat)
	assert.Equal(t, "Berlin", got[1].City)
	require.NotNil(t, got[1].Altitude)
	assert.InDelta(t, 34.0, *got[1].Altitude, 1e-9)

	_, err = os.Stat(filepath.Join(dir, "."+VenuesFile+".tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestExporter_WritePerformances(t *testing.T) {
	dir := t.TempDir()
	e, err := NewExporter(dir, discardLogger())
	require.NoError(t, err)

	date := time.Date(2009, time.August, 16, 0, 0, 0, 0, time.UTC)
	loaded := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	perfs := []domain.Performance{
		{
			AthleteKey: 1, EventKey: 2, VenueKey: 3, WeatherKey: 4, DateKey: 20090816,
			CompetitionDate: &date, ResultValue: 9.58, Rank: ptr(1), Wind: ptr(0.9),
			PerformanceScore: 1356.2, ScoreMethod: "coefficients", HasWindData: true,
			QualityScore: 8, Source: "world_athletics", LoadBatchID: "batch-1", LoadedAt: loaded,
		},
		{
			AthleteKey: 5, EventKey: 2, ResultValue: 10.01, ScoreMethod: "fallback",
			LoadBatchID: "batch-1", LoadedAt: loaded,
		},
	}
	require.NoError(t, e.WritePerformances(context.Background(), perfs))

	got := readBack[performanceRecord](t, filepath.Join(dir, PerformancesFile))
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, int64(20090816), first.DateKey)
	require.NotNil(t, first.CompetitionDate)
	assert.Equal(t, int32(date.Unix()/86400), *first.CompetitionDate)
	require.NotNil(t, first.Rank)
	assert.Equal(t, int32(1), *first.Rank)
	assert.Equal(t, loaded.UnixMilli(), first.LoadedAt)
	assert.True(t, first.HasWindData)

	second := got[1]
	assert.Nil(t, second.CompetitionDate)
	assert.Nil(t, second.Rank)
	assert.Nil(t, second.Wind)
	assert.Equal(t, "fallback", second.ScoreMethod)
}

func TestExporter_AllTables(t *testing.T) {
	dir := t.TempDir()
	e, err := NewExporter(dir, discardLogger())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.WriteAthletes(ctx, []domain.Athlete{{Key: 1, Name: "Usain BOLT", NameClean: "Usain Bolt", Gender: domain.GenderMale}}))
	require.NoError(t, e.WriteEvents(ctx, []domain.Event{{Key: 1, Name: "100m", StandardizedName: "100m", Group: "Sprint", DistanceMeters: ptr(100), IsOutdoor: true}}))
	require.NoError(t, e.WriteWeather(ctx, []domain.WeatherCondition{domain.UnknownWeather()}))

	athletes := readBack[athleteRecord](t, filepath.Join(dir, AthletesFile))
	require.Len(t, athletes, 1)
	assert.Equal(t, "M", athletes[0].Gender)

	events := readBack[eventRecord](t, filepath.Join(dir, EventsFile))
	require.Len(t, events, 1)
	require.NotNil(t, events[0].DistanceMeters)
	assert.Equal(t, int32(100), *events[0].DistanceMeters)

	weather := readBack[weatherRecord](t, filepath.Join(dir, WeatherFile))
	require.Len(t, weather, 1)
	assert.Equal(t, int64(0), weather[0].WeatherKey)
}

func TestExporter_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	e, err := NewExporter(dir, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = e.WriteEvents(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(dir, EventsFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewExporter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	e, err := NewExporter(dir, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "parquet", e.Name())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
