package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// defaultCities are monitored when CITIES is not set.
var defaultCities = []string{"London", "New York", "Tokyo", "Paris", "Sydney"}

// AppConfig is the explicit configuration object constructed once at process
// start and passed into the fetcher, store, and orchestrator constructors.
// Core logic never reads the environment directly.
type AppConfig struct {
	OpenWeatherAPIKey  string `validate:"required"`
	OpenWeatherBaseURL string `validate:"required,url"`

	DatabasePath string `validate:"required"`

	// Cities to collect observations for, in fetch order.
	Cities []string `validate:"min=1,dive,required"`

	// UpdateInterval is the continuous-mode cycle interval.
	UpdateInterval time.Duration `validate:"required"`

	// FetchDelay is the pacing pause between per-city provider calls.
	FetchDelay time.Duration

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration `validate:"required"`

	// BigQuery warehouse mirror; mirroring is disabled when Project is
	// empty.
	BigQueryProject string
	BigQueryDataset string
	BigQueryTable   string

	LogLevel string
	Port     string `validate:"required"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather")
	cfg.DatabasePath = getenvDefault("DATABASE_PATH", "weather_data.db")

	if v := os.Getenv("CITIES"); v != "" {
		for _, city := range strings.Split(v, ",") {
			if city = strings.TrimSpace(city); city != "" {
				cfg.Cities = append(cfg.Cities, city)
			}
		}
	} else {
		cfg.Cities = defaultCities
	}

	cfg.UpdateInterval = time.Duration(getenvInt("UPDATE_INTERVAL_MINUTES", 30)) * time.Minute

	delayStr := getenvDefault("FETCH_DELAY", "1s")
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_DELAY: %w", err)
	}
	cfg.FetchDelay = delay

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.BigQueryProject = os.Getenv("BIGQUERY_PROJECT")
	cfg.BigQueryDataset = getenvDefault("BIGQUERY_DATASET", "weather")
	cfg.BigQueryTable = getenvDefault("BIGQUERY_TABLE", "weather_data")

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "INFO")
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
