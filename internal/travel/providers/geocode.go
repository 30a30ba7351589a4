package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

const geocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder implements travel.Resolver with the Google Geocoding API.
type GoogleGeocoder struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	logger  *slog.Logger
}

var _ travel.Resolver = (*GoogleGeocoder)(nil)

func NewGoogleGeocoder(client *http.Client, apiKey string, opts ...Option) *GoogleGeocoder {
	s := applyOptions(geocodeURL, opts)
	return &GoogleGeocoder{
		name:    "geocode",
		apiKey:  apiKey,
		baseURL: s.baseURL,
		httpCfg: newHTTPClientConfig("google-geocode", client),
		logger:  s.logger,
	}
}

func (p *GoogleGeocoder) Name() string {
	return p.name
}

// Resolve returns the first candidate for query, named by its formatted address.
func (p *GoogleGeocoder) Resolve(ctx context.Context, query string) (travel.Place, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("address", query)
		values.Set("key", p.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := doRequest(ctx, p.name, p.httpCfg, buildRequest)
	if err != nil {
		return travel.Place{}, err
	}

	var payload struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Results      []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := decodeJSON(p.name, resp, &payload); err != nil {
		return travel.Place{}, err
	}

	switch payload.Status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return travel.Place{}, &travel.TransportError{
			Op:  p.name,
			Err: fmt.Errorf("provider status %s: %s", payload.Status, payload.ErrorMessage),
		}
	}

	if len(payload.Results) == 0 {
		return travel.Place{}, &travel.NotFoundError{Query: query}
	}

	first := payload.Results[0]
	place := travel.Place{
		Name:      first.FormattedAddress,
		Latitude:  first.Geometry.Location.Lat,
		Longitude: first.Geometry.Location.Lng,
	}
	if err := validate.Struct(place); err != nil {
		return travel.Place{}, &travel.TransportError{Op: p.name, Err: fmt.Errorf("%w: %v", errMissingField, err)}
	}

	p.logger.Debug("geocoded", "query", query, "name", place.Name, "candidates", len(payload.Results))
	return place, nil
}
