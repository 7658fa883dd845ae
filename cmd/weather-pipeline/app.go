package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/config"
	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/pipeline"
	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/store"
	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/warehouse"
	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather"
	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather/providers"
)

// app bundles the wired components shared by all commands.
type app struct {
	cfg      *config.AppConfig
	storage  *store.Storage
	sink     *warehouse.BigQuerySink
	pipeline *pipeline.Pipeline
}

// newApp loads configuration and constructs the fetcher, store, optional
// warehouse sink, and orchestrator. Only collection commands ask for the
// warehouse; read-only commands never touch it.
func newApp(ctx context.Context, withWarehouse bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	setupLogging(cfg.LogLevel)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.FetchDelay)

	storage, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// The warehouse mirror is best-effort end to end: an unavailable sink
	// disables mirroring instead of blocking collection.
	var bq *warehouse.BigQuerySink
	var sink weather.Sink
	if withWarehouse && cfg.BigQueryProject != "" {
		bq, err = warehouse.NewBigQuerySink(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable)
		if err != nil {
			slog.Warn("warehouse sink unavailable, mirroring disabled", "error", err)
			bq = nil
		} else {
			sink = bq
		}
	}

	pl := pipeline.New(client, storage, sink, cfg.Cities, cfg.UpdateInterval)

	return &app{
		cfg:      cfg,
		storage:  storage,
		sink:     bq,
		pipeline: pl,
	}, nil
}

func (a *app) close() {
	a.closeSink()
	if err := a.storage.Close(); err != nil {
		slog.Error("error closing store", "error", err)
	}
}

// closeSink releases the warehouse client on its own, for commands where
// the store's lifetime is managed elsewhere.
func (a *app) closeSink() {
	if a.sink == nil {
		return
	}
	if err := a.sink.Close(); err != nil {
		slog.Error("error closing warehouse sink", "error", err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN", "WARNING":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))
}
