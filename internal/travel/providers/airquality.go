package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

const airQualityURL = "https://airquality.googleapis.com/v1/currentConditions:lookup"

// GoogleAirQualityProvider implements travel.AirQualityFetcher with the Google Air Quality API.
// Only the first entry of the returned indexes is used; other index standards are ignored.
type GoogleAirQualityProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	logger  *slog.Logger
}

var _ travel.AirQualityFetcher = (*GoogleAirQualityProvider)(nil)

func NewGoogleAirQualityProvider(client *http.Client, apiKey string, opts ...Option) *GoogleAirQualityProvider {
	s := applyOptions(airQualityURL, opts)
	return &GoogleAirQualityProvider{
		name:    "air_quality",
		apiKey:  apiKey,
		baseURL: s.baseURL,
		httpCfg: newHTTPClientConfig("google-airquality", client),
		logger:  s.logger,
	}
}

func (p *GoogleAirQualityProvider) Name() string {
	return p.name
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FetchAirQuality returns the air quality at lat/lon. Missing index data degrades to
// an unavailable reading instead of an error.
func (p *GoogleAirQualityProvider) FetchAirQuality(ctx context.Context, lat, lon float64) (travel.AirQualityReading, error) {
	body, err := json.Marshal(struct {
		Location latLng `json:"location"`
	}{Location: latLng{Latitude: lat, Longitude: lon}})
	if err != nil {
		return travel.AirQualityReading{}, &travel.TransportError{Op: p.name, Err: err}
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}

	resp, err := doRequest(ctx, p.name, p.httpCfg, buildRequest)
	if err != nil {
		return travel.AirQualityReading{}, err
	}

	var payload struct {
		Indexes []struct {
			AQI      json.RawMessage `json:"aqi"`
			Category string          `json:"category"`
		} `json:"indexes"`
	}
	if err := decodeJSON(p.name, resp, &payload); err != nil {
		return travel.AirQualityReading{}, err
	}

	reading := travel.AirQualityReading{Category: "Unknown"}
	if len(payload.Indexes) > 0 {
		first := payload.Indexes[0]
		reading.AQI = parseAQI(first.AQI)
		if first.Category != "" {
			reading.Category = first.Category
		}
	}
	reading.HealthRecommendation = travel.HealthRecommendation(reading.AQI)

	p.logger.Debug("air quality fetched", "lat", lat, "lon", lon, "aqi", reading.AQI.String())
	return reading, nil
}

// parseAQI accepts only integer index values; anything else is unavailable.
func parseAQI(raw json.RawMessage) travel.AQI {
	var n int
	if len(raw) == 0 || string(raw) == "null" || json.Unmarshal(raw, &n) != nil {
		return travel.AQI{}
	}
	return travel.NewAQI(n)
}
