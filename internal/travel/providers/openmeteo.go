package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

const (
	openMeteoURL = "https://api.open-meteo.com/v1/forecast"

	openMeteoCurrentFields = "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m,is_day"
	openMeteoDailyFields   = "temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max"

	// The daily outlook is requested but not surfaced in the reading yet.
	openMeteoForecastDays = 3
)

var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	51: "Light drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Snow",
}

// OpenMeteoProvider implements travel.WeatherFetcher for Open-Meteo. No API key is needed.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	logger  *slog.Logger
}

var _ travel.WeatherFetcher = (*OpenMeteoProvider)(nil)

func NewOpenMeteoProvider(client *http.Client, opts ...Option) *OpenMeteoProvider {
	s := applyOptions(openMeteoURL, opts)
	return &OpenMeteoProvider{
		name:    "weather",
		baseURL: s.baseURL,
		httpCfg: newHTTPClientConfig("openmeteo", client),
		logger:  s.logger,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchWeather returns current conditions at lat/lon.
func (p *OpenMeteoProvider) FetchWeather(ctx context.Context, lat, lon float64) (travel.WeatherReading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("current", openMeteoCurrentFields)
		values.Set("daily", openMeteoDailyFields)
		values.Set("timezone", "auto")
		values.Set("forecast_days", fmt.Sprintf("%d", openMeteoForecastDays))
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := doRequest(ctx, p.name, p.httpCfg, buildRequest)
	if err != nil {
		return travel.WeatherReading{}, err
	}

	var payload struct {
		Current *struct {
			Temperature   *float64 `json:"temperature_2m"`
			WeatherCode   *int     `json:"weather_code"`
			WindSpeed     *float64 `json:"wind_speed_10m"`
			Precipitation *float64 `json:"precipitation"`
		} `json:"current"`
	}
	if err := decodeJSON(p.name, resp, &payload); err != nil {
		return travel.WeatherReading{}, err
	}

	cur := payload.Current
	switch {
	case cur == nil:
		return travel.WeatherReading{}, missingField(p.name, "current")
	case cur.Temperature == nil:
		return travel.WeatherReading{}, missingField(p.name, "current.temperature_2m")
	case cur.WeatherCode == nil:
		return travel.WeatherReading{}, missingField(p.name, "current.weather_code")
	case cur.WindSpeed == nil:
		return travel.WeatherReading{}, missingField(p.name, "current.wind_speed_10m")
	case cur.Precipitation == nil:
		return travel.WeatherReading{}, missingField(p.name, "current.precipitation")
	}

	temp := round1(*cur.Temperature)
	reading := travel.WeatherReading{
		TemperatureC:           temp,
		Condition:              mapOpenMeteoCondition(*cur.WeatherCode),
		WindSpeedKmh:           round1(*cur.WindSpeed),
		NeedsUmbrella:          *cur.Precipitation > 0,
		ClothingRecommendation: travel.ClothingRecommendation(temp),
	}
	p.logger.Debug("weather fetched", "lat", lat, "lon", lon, "condition", reading.Condition)
	return reading, nil
}

func mapOpenMeteoCondition(code int) string {
	if label, ok := weatherCodes[code]; ok {
		return label
	}
	return "Unknown"
}
