package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// probeCity is the city used by TestConnection.
const probeCity = "London"

// OpenWeatherClient implements weather.Client against OpenWeatherMap.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	delay   time.Duration // pacing between sequential city fetches
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherClient creates a client. delay is the fixed inter-call pause
// used by FetchMany to stay inside the provider's rate limit.
func NewOpenWeatherClient(client *http.Client, apiKey, baseURL string, delay time.Duration) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		delay:   delay,
		client:  client,
		circuit: cb,
	}
}

// openWeatherPayload mirrors the subset of the OpenWeatherMap response we
// consume. Optional parts are pointers so absence survives decoding.
type openWeatherPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"` // Celsius (units=metric)
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Visibility *float64 `json:"visibility"`
	Wind       *struct {
		Speed float64  `json:"speed"`
		Deg   *float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// FetchOne fetches the current observation for a city. Single attempt,
// bounded by the HTTP client timeout and ctx.
func (c *OpenWeatherClient) FetchOne(ctx context.Context, city string) (weather.RawObservation, error) {
	if c.apiKey == "" {
		return weather.RawObservation{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("appid", c.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, c.client, c.circuit, buildRequest)
	if err != nil {
		return weather.RawObservation{}, fmt.Errorf("fetch %s: %w", city, err)
	}
	defer resp.Body.Close()

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.RawObservation{}, fmt.Errorf("decode response for %s: %w", city, err)
	}

	return transform(payload), nil
}

// FetchMany fetches cities sequentially with the configured pacing delay.
// Failed cities are logged and omitted from the result; the caller detects
// shortfall by count.
func (c *OpenWeatherClient) FetchMany(ctx context.Context, cities []string) []weather.RawObservation {
	raws := make([]weather.RawObservation, 0, len(cities))

	for i, city := range cities {
		if i > 0 && c.delay > 0 {
			timer := time.NewTimer(c.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				slog.Warn("fetch cancelled", "remaining", len(cities)-i)
				return raws
			case <-timer.C:
			}
		}

		slog.Info("fetching weather data", "city", city)
		raw, err := c.FetchOne(ctx, city)
		if err != nil {
			slog.Error("fetch failed", "city", city, "error", err)
			continue
		}
		raws = append(raws, raw)
	}

	slog.Info("fetched weather data", "received", len(raws), "requested", len(cities))
	return raws
}

// TestConnection probes the provider with a single fetch.
func (c *OpenWeatherClient) TestConnection(ctx context.Context) bool {
	if _, err := c.FetchOne(ctx, probeCity); err != nil {
		slog.Error("api connection test failed", "error", err)
		return false
	}
	return true
}

// transform normalizes the provider payload into the pipeline's raw record.
// Temperatures are carried in both Kelvin and Celsius.
func transform(p openWeatherPayload) weather.RawObservation {
	raw := weather.RawObservation{
		City:               p.Name,
		Country:            p.Sys.Country,
		Timestamp:          jsonNumber(float64(p.Dt)),
		Temperature:        jsonNumber(p.Main.Temp + weather.KelvinOffset),
		TemperatureCelsius: jsonNumber(p.Main.Temp),
		Humidity:           jsonNumber(p.Main.Humidity),
		Pressure:           jsonNumber(p.Main.Pressure),
	}

	feels := jsonNumber(p.Main.FeelsLike + weather.KelvinOffset)
	raw.FeelsLike = &feels

	clouds := jsonNumber(p.Clouds.All)
	raw.Cloudiness = &clouds

	if p.Visibility != nil {
		vis := jsonNumber(*p.Visibility)
		raw.Visibility = &vis
	}
	if p.Wind != nil {
		speed := jsonNumber(p.Wind.Speed)
		raw.WindSpeed = &speed
		if p.Wind.Deg != nil {
			deg := jsonNumber(*p.Wind.Deg)
			raw.WindDirection = &deg
		}
	}
	if len(p.Weather) > 0 {
		raw.Description = p.Weather[0].Description
		raw.WeatherMain = p.Weather[0].Main
	}

	return raw
}

func jsonNumber(v float64) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
}
