package weather

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// Accepted ranges for observation fields. Values outside these bounds are
// treated as upstream data-quality noise and dropped.
const (
	minTemperatureC = -100.0
	maxTemperatureC = 60.0
	minHumidity     = 0.0
	maxHumidity     = 100.0
	minPressure     = 800.0
	maxPressure     = 1200.0
	minCloudiness   = 0.0
	maxCloudiness   = 100.0
	minWindSpeed    = 0.0
	maxWindSpeed    = 200.0
)

// requiredNumbers enumerates the mandatory numeric fields of a raw
// observation in validation order.
func requiredNumbers(raw RawObservation) []struct {
	name  string
	value json.Number
} {
	return []struct {
		name  string
		value json.Number
	}{
		{"timestamp", raw.Timestamp},
		{"temperature", raw.Temperature},
		{"temperature_celsius", raw.TemperatureCelsius},
		{"humidity", raw.Humidity},
		{"pressure", raw.Pressure},
	}
}

// Validate reports whether a raw observation has all mandatory fields and
// all present numeric fields within their accepted ranges. It never fails
// the surrounding batch; invalid records are expected to be dropped by the
// caller.
func Validate(raw RawObservation) bool {
	for _, f := range []struct{ name, value string }{
		{"city", raw.City},
		{"country", raw.Country},
		{"description", raw.Description},
		{"weather_main", raw.WeatherMain},
	} {
		if strings.TrimSpace(f.value) == "" {
			slog.Warn("observation missing required field", "city", raw.City, "field", f.name)
			return false
		}
	}

	for _, f := range requiredNumbers(raw) {
		if f.value == "" {
			slog.Warn("observation missing required field", "city", raw.City, "field", f.name)
			return false
		}
		if _, err := f.value.Float64(); err != nil {
			slog.Warn("observation field is not numeric", "city", raw.City, "field", f.name, "value", f.value.String())
			return false
		}
	}

	tempC, _ := raw.TemperatureCelsius.Float64()
	if tempC < minTemperatureC || tempC > maxTemperatureC {
		slog.Warn("temperature out of range", "city", raw.City, "celsius", tempC)
		return false
	}

	humidity, _ := raw.Humidity.Float64()
	if humidity < minHumidity || humidity > maxHumidity {
		slog.Warn("humidity out of range", "city", raw.City, "humidity", humidity)
		return false
	}

	pressure, _ := raw.Pressure.Float64()
	if pressure < minPressure || pressure > maxPressure {
		slog.Warn("pressure out of range", "city", raw.City, "pressure", pressure)
		return false
	}

	// Optional fields are only checked when present.
	if raw.WindSpeed != nil {
		wind, err := raw.WindSpeed.Float64()
		if err != nil {
			slog.Warn("wind speed is not numeric", "city", raw.City, "value", raw.WindSpeed.String())
			return false
		}
		if wind < minWindSpeed || wind > maxWindSpeed {
			slog.Warn("wind speed out of range", "city", raw.City, "wind_speed", wind)
			return false
		}
	}

	if raw.Cloudiness != nil {
		cloud, err := raw.Cloudiness.Float64()
		if err != nil {
			slog.Warn("cloudiness is not numeric", "city", raw.City, "value", raw.Cloudiness.String())
			return false
		}
		if cloud < minCloudiness || cloud > maxCloudiness {
			slog.Warn("cloudiness out of range", "city", raw.City, "cloudiness", cloud)
			return false
		}
	}

	return true
}

// Clean converts a raw observation into a typed Observation: epoch-second
// timestamps become UTC instants, numeric fields become floats (optional
// fields that fail to parse become nil), and string fields are trimmed.
// Clean is a normalization fixed point: cleaning an already-clean payload
// yields the same Observation.
func Clean(raw RawObservation) Observation {
	obs := Observation{
		City:        strings.TrimSpace(raw.City),
		Country:     strings.TrimSpace(raw.Country),
		Description: strings.TrimSpace(raw.Description),
		WeatherMain: strings.TrimSpace(raw.WeatherMain),
	}

	if secs, err := raw.Timestamp.Float64(); err == nil {
		obs.Timestamp = time.Unix(int64(secs), 0).UTC()
	}

	obs.Temperature = numberValue(raw.Temperature)
	obs.TemperatureCelsius = numberValue(raw.TemperatureCelsius)
	obs.Humidity = numberValue(raw.Humidity)
	obs.Pressure = numberValue(raw.Pressure)

	obs.FeelsLike = numberPtr(raw.FeelsLike)
	obs.Visibility = numberPtr(raw.Visibility)
	obs.WindSpeed = numberPtr(raw.WindSpeed)
	obs.WindDirection = numberPtr(raw.WindDirection)

	// Cloudiness defaults to zero when the provider omits it.
	if cloud := numberPtr(raw.Cloudiness); cloud != nil {
		obs.Cloudiness = *cloud
	}

	return obs
}

// FilterValid drops invalid records individually and returns the cleaned
// remainder. Per-record problems are logged, never raised.
func FilterValid(raws []RawObservation) []Observation {
	valid := make([]Observation, 0, len(raws))
	for _, raw := range raws {
		if !Validate(raw) {
			slog.Warn("dropping invalid observation", "city", raw.City)
			continue
		}
		valid = append(valid, Clean(raw))
	}
	slog.Info("filtered observations", "valid", len(valid), "total", len(raws))
	return valid
}

func numberValue(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

func numberPtr(n *json.Number) *float64 {
	if n == nil {
		return nil
	}
	v, err := n.Float64()
	if err != nil {
		return nil
	}
	return &v
}
