package weather

import (
	"encoding/json"
	"time"
)

// KelvinOffset relates the two temperature representations carried by every
// observation: temperature = temperature_celsius + KelvinOffset.
const KelvinOffset = 273.15

// RawObservation is the pre-validation payload produced by the fetcher
// boundary. Mandatory numeric fields are json.Number so that a malformed
// provider value fails validation instead of aborting the batch; an empty
// Number means the field was absent. Optional numerics are pointers, nil
// meaning absent.
type RawObservation struct {
	City               string       `json:"city"`
	Country            string       `json:"country"`
	Timestamp          json.Number  `json:"timestamp"` // epoch seconds
	Temperature        json.Number  `json:"temperature"`
	TemperatureCelsius json.Number  `json:"temperature_celsius"`
	FeelsLike          *json.Number `json:"feels_like,omitempty"`
	Humidity           json.Number  `json:"humidity"`
	Pressure           json.Number  `json:"pressure"`
	Visibility         *json.Number `json:"visibility,omitempty"`
	WindSpeed          *json.Number `json:"wind_speed,omitempty"`
	WindDirection      *json.Number `json:"wind_direction,omitempty"`
	Cloudiness         *json.Number `json:"cloudiness,omitempty"`
	Description        string       `json:"description"`
	WeatherMain        string       `json:"weather_main"`
}

// Observation is one validated weather reading for a city at a point in time.
// It is immutable once persisted. (city, timestamp) is the logical identity
// but is deliberately not unique, so readers must tolerate duplicates.
type Observation struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	City               string    `gorm:"size:100;not null;index:idx_city_timestamp,priority:1" json:"city"`
	Country            string    `gorm:"size:100;not null" json:"country"`
	Timestamp          time.Time `gorm:"not null;index:idx_city_timestamp,priority:2;index:idx_timestamp" json:"timestamp"` // always UTC
	Temperature        float64   `gorm:"not null" json:"temperature"`                                                       // Kelvin
	TemperatureCelsius float64   `gorm:"not null" json:"temperature_celsius"`
	FeelsLike          *float64  `json:"feels_like,omitempty"`       // Kelvin
	Humidity           float64   `gorm:"not null" json:"humidity"`   // percentage
	Pressure           float64   `gorm:"not null" json:"pressure"`   // hPa
	Visibility         *float64  `json:"visibility,omitempty"`       // meters
	WindSpeed          *float64  `json:"wind_speed,omitempty"`       // m/s
	WindDirection      *float64  `json:"wind_direction,omitempty"`   // degrees
	Cloudiness         float64   `gorm:"not null" json:"cloudiness"` // percentage
	Description        string    `gorm:"size:200;not null" json:"description"`
	WeatherMain        string    `gorm:"size:100;not null" json:"weather_main"`
}

// TableName keeps the table name stable regardless of gorm's pluralization.
func (Observation) TableName() string {
	return "weather_data"
}

// StatsSummary is a derived aggregate over a query window. It is recomputed
// on demand and never cached.
type StatsSummary struct {
	TotalRecords   int       `json:"total_records"`
	AvgTemperature float64   `json:"avg_temperature"` // Celsius
	MinTemperature float64   `json:"min_temperature"`
	MaxTemperature float64   `json:"max_temperature"`
	AvgHumidity    float64   `json:"avg_humidity"`
	AvgPressure    float64   `json:"avg_pressure"`
	CitiesCovered  int       `json:"cities_covered"`
	RangeStart     time.Time `json:"range_start"`
	RangeEnd       time.Time `json:"range_end"`
}
