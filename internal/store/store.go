package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather"
)

// ErrStructural marks a write batch that was rolled back because a record
// failed construction. Records reaching the store are assumed already
// validated, so this indicates a defect upstream, not data-quality noise.
var ErrStructural = errors.New("structural fault in observation batch")

// Storage is the gorm-backed persistent observation store.
type Storage struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates the
// observation schema.
func Open(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&weather.Observation{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// New wraps an existing gorm handle. Used by tests to run against an
// in-memory database.
func New(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&weather.Observation{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Store persists a batch of observations. The batch is transactional:
// either every record commits or none does, and the fault is propagated
// to the caller after rollback. An empty batch is a no-op.
func (s *Storage) Store(ctx context.Context, records []weather.Observation) (int, error) {
	if len(records) == 0 {
		slog.Warn("no weather records to store")
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := checkShape(rec); err != nil {
				return fmt.Errorf("%w: %v", ErrStructural, err)
			}

			// Records without a usable timestamp default to now rather
			// than being rejected.
			if rec.Timestamp.IsZero() {
				rec.Timestamp = time.Now().UTC()
			} else {
				rec.Timestamp = rec.Timestamp.UTC()
			}
			rec.ID = 0

			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrStructural, err)
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("error storing weather data", "error", err)
		return 0, err
	}

	slog.Info("stored weather records", "count", len(records))
	return len(records), nil
}

// checkShape rejects records whose mandatory text fields are empty. Such a
// record cannot have passed validation and poisons the whole batch.
func checkShape(rec weather.Observation) error {
	switch {
	case rec.City == "":
		return errors.New("empty city")
	case rec.Country == "":
		return errors.New("empty country")
	case rec.Description == "":
		return errors.New("empty description")
	case rec.WeatherMain == "":
		return errors.New("empty weather_main")
	}
	return nil
}

// Latest returns the most recent observation per distinct city, optionally
// restricted to cities whose name contains the given substring
// (case-insensitive). Ties on equal timestamps break on highest id so the
// result is deterministic across calls. Storage faults degrade to an empty
// result.
func (s *Storage) Latest(ctx context.Context, city string) []weather.Observation {
	q := s.db.WithContext(ctx).Model(&weather.Observation{})
	if city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}

	var rows []weather.Observation
	if err := q.Order("city ASC").Order("timestamp DESC").Order("id DESC").Find(&rows).Error; err != nil {
		slog.Error("error retrieving latest weather data", "error", err)
		return nil
	}

	// First row per city is the newest thanks to the ordering above.
	seen := make(map[string]struct{})
	latest := make([]weather.Observation, 0, len(rows))
	for _, rec := range rows {
		if _, ok := seen[rec.City]; ok {
			continue
		}
		seen[rec.City] = struct{}{}
		latest = append(latest, rec)
	}
	return latest
}

// History returns all observations for cities matching the substring within
// the trailing window of days, newest first. The result is uncapped.
func (s *Storage) History(ctx context.Context, city string, days int) []weather.Observation {
	start := time.Now().UTC().AddDate(0, 0, -days)

	var rows []weather.Observation
	err := s.db.WithContext(ctx).
		Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%").
		Where("timestamp >= ?", start).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		slog.Error("error retrieving weather history", "city", city, "error", err)
		return nil
	}
	return rows
}

// Stats aggregates observations over the trailing window of days, optionally
// filtered by city substring. ok is false when no records match or the read
// fails; an empty window is not an error.
func (s *Storage) Stats(ctx context.Context, city string, days int) (weather.StatsSummary, bool) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -days)

	q := s.db.WithContext(ctx).Model(&weather.Observation{}).Where("timestamp >= ?", start)
	if city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}

	var rows []weather.Observation
	if err := q.Find(&rows).Error; err != nil {
		slog.Error("error calculating weather stats", "error", err)
		return weather.StatsSummary{}, false
	}

	return weather.Summarize(rows, start, now)
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
