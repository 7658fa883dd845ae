package weather

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(s string) *json.Number {
	n := json.Number(s)
	return &n
}

// validRaw returns a raw observation that passes every check.
func validRaw() RawObservation {
	return RawObservation{
		City:               "Paris",
		Country:            "FR",
		Timestamp:          "1700000000",
		Temperature:        "288.15",
		TemperatureCelsius: "15",
		FeelsLike:          num("287.15"),
		Humidity:           "60",
		Pressure:           "1013",
		Visibility:         num("10000"),
		WindSpeed:          num("5.5"),
		WindDirection:      num("180"),
		Cloudiness:         num("75"),
		Description:        "scattered clouds",
		WeatherMain:        "Clouds",
	}
}

func TestValidateAcceptsCompleteObservation(t *testing.T) {
	assert.True(t, Validate(validRaw()))
}

func TestValidateRejectsMissingMandatoryFields(t *testing.T) {
	mutations := map[string]func(*RawObservation){
		"city":                func(r *RawObservation) { r.City = "" },
		"country":             func(r *RawObservation) { r.Country = "" },
		"timestamp":           func(r *RawObservation) { r.Timestamp = "" },
		"temperature":         func(r *RawObservation) { r.Temperature = "" },
		"temperature_celsius": func(r *RawObservation) { r.TemperatureCelsius = "" },
		"humidity":            func(r *RawObservation) { r.Humidity = "" },
		"pressure":            func(r *RawObservation) { r.Pressure = "" },
		"description":         func(r *RawObservation) { r.Description = "" },
		"weather_main":        func(r *RawObservation) { r.WeatherMain = "" },
	}

	for field, mutate := range mutations {
		raw := validRaw()
		mutate(&raw)
		assert.False(t, Validate(raw), "missing %s should be invalid", field)
	}
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawObservation)
	}{
		{"temperature too cold", func(r *RawObservation) { r.TemperatureCelsius = "-150" }},
		{"temperature too hot", func(r *RawObservation) { r.TemperatureCelsius = "61" }},
		{"humidity negative", func(r *RawObservation) { r.Humidity = "-1" }},
		{"humidity above 100", func(r *RawObservation) { r.Humidity = "150" }},
		{"pressure too low", func(r *RawObservation) { r.Pressure = "799" }},
		{"pressure too high", func(r *RawObservation) { r.Pressure = "1201" }},
		{"cloudiness above 100", func(r *RawObservation) { r.Cloudiness = num("101") }},
		{"wind speed negative", func(r *RawObservation) { r.WindSpeed = num("-0.1") }},
		{"wind speed above 200", func(r *RawObservation) { r.WindSpeed = num("201") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.mutate(&raw)
			assert.False(t, Validate(raw))
		})
	}
}

func TestValidateRejectsNonNumericValues(t *testing.T) {
	raw := validRaw()
	raw.Humidity = "sixty"
	assert.False(t, Validate(raw))

	raw = validRaw()
	raw.WindSpeed = num("brisk")
	assert.False(t, Validate(raw))
}

func TestValidateToleratesAbsentOptionalFields(t *testing.T) {
	raw := validRaw()
	raw.FeelsLike = nil
	raw.Visibility = nil
	raw.WindSpeed = nil
	raw.WindDirection = nil
	raw.Cloudiness = nil
	assert.True(t, Validate(raw))
}

func TestValidateBoundaryValuesAreInRange(t *testing.T) {
	raw := validRaw()
	raw.TemperatureCelsius = "-100"
	raw.Humidity = "0"
	raw.Pressure = "800"
	raw.Cloudiness = num("100")
	raw.WindSpeed = num("200")
	assert.True(t, Validate(raw))
}

func TestCleanNormalizes(t *testing.T) {
	raw := validRaw()
	raw.City = "  Paris "
	raw.Description = " scattered clouds\n"

	obs := Clean(raw)

	assert.Equal(t, "Paris", obs.City)
	assert.Equal(t, "scattered clouds", obs.Description)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), obs.Timestamp)
	assert.Equal(t, time.UTC, obs.Timestamp.Location())
	assert.Equal(t, 15.0, obs.TemperatureCelsius)
	assert.InDelta(t, obs.TemperatureCelsius+KelvinOffset, obs.Temperature, 1e-9)
	require.NotNil(t, obs.WindSpeed)
	assert.Equal(t, 5.5, *obs.WindSpeed)
	assert.Equal(t, 75.0, obs.Cloudiness)
}

func TestCleanIsIdempotentOnNormalizedInput(t *testing.T) {
	messy := validRaw()
	messy.City = " Paris "
	messy.WeatherMain = "Clouds "

	normalized := validRaw() // already trimmed, numbers canonical

	assert.Equal(t, Clean(normalized), Clean(messy))
	assert.Equal(t, Clean(normalized), Clean(normalized))
}

func TestCleanNullsUnparseableOptionalFields(t *testing.T) {
	raw := validRaw()
	raw.Visibility = num("unknown")
	raw.Cloudiness = nil

	obs := Clean(raw)

	assert.Nil(t, obs.Visibility)
	assert.Equal(t, 0.0, obs.Cloudiness) // absent cloudiness defaults to zero
}

func TestFilterValidDropsOnlyInvalidRecords(t *testing.T) {
	bad := validRaw()
	bad.Humidity = "150"

	missing := validRaw()
	missing.Country = ""

	got := FilterValid([]RawObservation{validRaw(), bad, missing, validRaw()})

	require.Len(t, got, 2)
	for _, obs := range got {
		assert.Equal(t, "Paris", obs.City)
	}
}

func TestFilterValidEmptyInput(t *testing.T) {
	assert.Empty(t, FilterValid(nil))
}
