package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather"
)

// newTestStorage opens a fresh named in-memory database. The shared cache
// keeps all pooled connections on the same database.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	s, err := New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func obs(city string, ts time.Time, tempC float64) weather.Observation {
	return weather.Observation{
		City:               city,
		Country:            "XX",
		Timestamp:          ts,
		Temperature:        tempC + weather.KelvinOffset,
		TemperatureCelsius: tempC,
		Humidity:           60,
		Pressure:           1013,
		Cloudiness:         20,
		Description:        "clear sky",
		WeatherMain:        "Clear",
	}
}

func TestStoreEmptyBatch(t *testing.T) {
	s := newTestStorage(t)

	count, err := s.Store(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStoreAndLatestPerCity(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	batch := []weather.Observation{
		obs("Paris", now.Add(-2*time.Hour), 10),
		obs("Paris", now, 12),
		obs("Paris", now.Add(-1*time.Hour), 11),
		obs("Tokyo", now.Add(-30*time.Minute), 25),
	}

	count, err := s.Store(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	latest := s.Latest(ctx, "")
	require.Len(t, latest, 2)

	byCity := map[string]weather.Observation{}
	for _, rec := range latest {
		byCity[rec.City] = rec
	}
	assert.Equal(t, 12.0, byCity["Paris"].TemperatureCelsius)
	assert.Equal(t, 25.0, byCity["Tokyo"].TemperatureCelsius)
}

func TestLatestTieBreaksOnHighestID(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	ts := time.Now().UTC().Truncate(time.Second)

	first := obs("Paris", ts, 10)
	second := obs("Paris", ts, 20)

	_, err := s.Store(ctx, []weather.Observation{first, second})
	require.NoError(t, err)

	// Duplicate (city, timestamp) rows are allowed; the later insert wins
	// deterministically.
	for i := 0; i < 3; i++ {
		latest := s.Latest(ctx, "Paris")
		require.Len(t, latest, 1)
		assert.Equal(t, 20.0, latest[0].TemperatureCelsius)
	}
}

func TestLatestSubstringFilterIsCaseInsensitive(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.Store(ctx, []weather.Observation{
		obs("New York", now, 18),
		obs("Paris", now, 12),
	})
	require.NoError(t, err)

	latest := s.Latest(ctx, "york")
	require.Len(t, latest, 1)
	assert.Equal(t, "New York", latest[0].City)
}

func TestHistoryWindowAndFilter(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.Store(ctx, []weather.Observation{
		obs("Paris", now.AddDate(0, 0, -10), 5), // outside window
		obs("Paris", now.AddDate(0, 0, -3), 8),
		obs("Paris", now.Add(-time.Hour), 14),
		obs("Tokyo", now.Add(-time.Hour), 25), // different city
	})
	require.NoError(t, err)

	history := s.History(ctx, "paris", 7)
	require.Len(t, history, 2)

	cutoff := now.AddDate(0, 0, -7)
	for _, rec := range history {
		assert.Equal(t, "Paris", rec.City)
		assert.True(t, rec.Timestamp.After(cutoff))
	}

	// Newest first.
	assert.True(t, !history[0].Timestamp.Before(history[1].Timestamp))
}

func TestStatsOverWindow(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.Store(ctx, []weather.Observation{
		obs("Paris", now.Add(-time.Hour), 10),
		obs("Paris", now.Add(-2*time.Hour), 20),
		obs("Tokyo", now.AddDate(0, 0, -30), 40), // outside window
	})
	require.NoError(t, err)

	stats, ok := s.Stats(ctx, "", 7)
	require.True(t, ok)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.InDelta(t, 15.0, stats.AvgTemperature, 1e-9)
	assert.Equal(t, 10.0, stats.MinTemperature)
	assert.Equal(t, 20.0, stats.MaxTemperature)
	assert.Equal(t, 1, stats.CitiesCovered)
}

func TestStatsEmptyWindow(t *testing.T) {
	s := newTestStorage(t)

	stats, ok := s.Stats(context.Background(), "", 7)
	assert.False(t, ok)
	assert.Zero(t, stats.TotalRecords)
}

func TestStoreRollsBackWholeBatchOnStructuralFault(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	broken := obs("", now, 10) // empty city cannot have passed validation

	count, err := s.Store(ctx, []weather.Observation{obs("Paris", now, 10), broken})
	require.ErrorIs(t, err, ErrStructural)
	assert.Equal(t, 0, count)

	// The valid record must not have survived the rollback.
	assert.Empty(t, s.Latest(ctx, ""))
}

func TestReadsDegradeToEmptyAfterClose(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Store(ctx, []weather.Observation{obs("Paris", time.Now().UTC(), 10)})
	require.NoError(t, err)

	// Closing the pool makes every subsequent query fail; reads must log
	// and degrade to empty rather than surface the fault.
	require.NoError(t, s.Close())

	assert.Empty(t, s.Latest(ctx, ""))
	assert.Empty(t, s.History(ctx, "paris", 7))

	stats, ok := s.Stats(ctx, "", 7)
	assert.False(t, ok)
	assert.Zero(t, stats.TotalRecords)
}

func TestStoreDefaultsZeroTimestampToNow(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	rec := obs("Paris", time.Time{}, 10)
	_, err := s.Store(ctx, []weather.Observation{rec})
	require.NoError(t, err)

	latest := s.Latest(ctx, "Paris")
	require.Len(t, latest, 1)
	assert.WithinDuration(t, time.Now().UTC(), latest[0].Timestamp, time.Minute)
}
