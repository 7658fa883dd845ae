package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, defaultCities, cfg.Cities)
	assert.Equal(t, 30*time.Minute, cfg.UpdateInterval)
	assert.Equal(t, time.Second, cfg.FetchDelay)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "weather_data.db", cfg.DatabasePath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.BigQueryProject)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesCityList(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("CITIES", "Paris, Tokyo ,Oslo,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Tokyo", "Oslo"}, cfg.Cities)
}

func TestLoadRejectsInvalidDurations(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("FETCH_DELAY", "soon")

	_, err := Load()
	assert.Error(t, err)
}
