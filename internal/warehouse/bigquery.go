package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather"
)

// BigQuerySink mirrors validated observations into a BigQuery table via the
// streaming inserter. Appends are write-append only; duplicate rows across
// retried cycles are acceptable by contract, so no dedup keys are managed
// here.
type BigQuerySink struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	tableRef string
}

// NewBigQuerySink connects to the configured table. Credentials come from
// the ambient Google Cloud environment.
func NewBigQuerySink(ctx context.Context, projectID, datasetID, tableID string) (*BigQuerySink, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}

	return &BigQuerySink{
		client:   client,
		inserter: client.Dataset(datasetID).Table(tableID).Inserter(),
		tableRef: fmt.Sprintf("%s.%s.%s", projectID, datasetID, tableID),
	}, nil
}

// observationRow is the warehouse-side row shape. It drops the local
// autoincrement id, which is meaningless outside the local store.
type observationRow struct {
	City               string    `bigquery:"city"`
	Country            string    `bigquery:"country"`
	Timestamp          time.Time `bigquery:"timestamp"`
	Temperature        float64   `bigquery:"temperature"`
	TemperatureCelsius float64   `bigquery:"temperature_celsius"`
	FeelsLike          *float64  `bigquery:"feels_like"`
	Humidity           float64   `bigquery:"humidity"`
	Pressure           float64   `bigquery:"pressure"`
	Visibility         *float64  `bigquery:"visibility"`
	WindSpeed          *float64  `bigquery:"wind_speed"`
	WindDirection      *float64  `bigquery:"wind_direction"`
	Cloudiness         float64   `bigquery:"cloudiness"`
	Description        string    `bigquery:"description"`
	WeatherMain        string    `bigquery:"weather_main"`
}

// Append uploads the batch and returns the number of rows sent. Failures
// are returned to the caller, which treats them as best-effort.
func (s *BigQuerySink) Append(ctx context.Context, records []weather.Observation) (int, error) {
	if len(records) == 0 {
		slog.Warn("no records to upload to warehouse")
		return 0, nil
	}

	rows := make([]observationRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, observationRow{
			City:               rec.City,
			Country:            rec.Country,
			Timestamp:          rec.Timestamp,
			Temperature:        rec.Temperature,
			TemperatureCelsius: rec.TemperatureCelsius,
			FeelsLike:          rec.FeelsLike,
			Humidity:           rec.Humidity,
			Pressure:           rec.Pressure,
			Visibility:         rec.Visibility,
			WindSpeed:          rec.WindSpeed,
			WindDirection:      rec.WindDirection,
			Cloudiness:         rec.Cloudiness,
			Description:        rec.Description,
			WeatherMain:        rec.WeatherMain,
		})
	}

	slog.Info("uploading rows to warehouse", "rows", len(rows), "table", s.tableRef)
	if err := s.inserter.Put(ctx, rows); err != nil {
		return 0, fmt.Errorf("append to %s: %w", s.tableRef, err)
	}

	slog.Info("uploaded rows to warehouse", "rows", len(rows), "table", s.tableRef)
	return len(rows), nil
}

// Close releases the BigQuery client.
func (s *BigQuerySink) Close() error {
	return s.client.Close()
}
