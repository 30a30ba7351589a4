package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

const (
	placesURL       = "https://places.googleapis.com/v1/places:searchNearby"
	placesFieldMask = "places.displayName,places.formattedAddress,places.rating"
)

// GooglePlacesProvider implements travel.AttractionFinder with the Google Places Nearby Search API.
type GooglePlacesProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	logger  *slog.Logger
}

var _ travel.AttractionFinder = (*GooglePlacesProvider)(nil)

func NewGooglePlacesProvider(client *http.Client, apiKey string, opts ...Option) *GooglePlacesProvider {
	s := applyOptions(placesURL, opts)
	return &GooglePlacesProvider{
		name:    "places",
		apiKey:  apiKey,
		baseURL: s.baseURL,
		httpCfg: newHTTPClientConfig("google-places", client),
		logger:  s.logger,
	}
}

func (p *GooglePlacesProvider) Name() string {
	return p.name
}

type nearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction struct {
		Circle struct {
			Center latLng `json:"center"`
			Radius int    `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

// FindAttractions issues one search per category, in order. The first failing
// category aborts the whole call.
func (p *GooglePlacesProvider) FindAttractions(ctx context.Context, lat, lon float64, categories []string, radiusMeters int) (*travel.AttractionSet, error) {
	if radiusMeters <= 0 {
		radiusMeters = travel.DefaultRadiusMeters
	}

	set := travel.NewAttractionSet()
	for _, category := range categories {
		attractions, err := p.searchNearby(ctx, lat, lon, category, radiusMeters)
		if err != nil {
			return nil, err
		}
		set.Set(category, attractions)
	}
	return set, nil
}

func (p *GooglePlacesProvider) searchNearby(ctx context.Context, lat, lon float64, category string, radius int) ([]travel.Attraction, error) {
	var reqBody nearbyRequest
	reqBody.IncludedTypes = []string{category}
	reqBody.MaxResultCount = travel.MaxAttractionsPerCategory
	reqBody.LocationRestriction.Circle.Center = latLng{Latitude: lat, Longitude: lon}
	reqBody.LocationRestriction.Circle.Radius = radius

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &travel.TransportError{Op: p.name, Err: err}
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, p.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Goog-Api-Key", p.apiKey)
		req.Header.Set("X-Goog-FieldMask", placesFieldMask)
		return req, nil
	}

	resp, err := doRequest(ctx, p.name, p.httpCfg, buildRequest)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Places []struct {
			DisplayName *struct {
				Text string `json:"text"`
			} `json:"displayName"`
			FormattedAddress *string  `json:"formattedAddress"`
			Rating           *float64 `json:"rating"`
		} `json:"places"`
	}
	if err := decodeJSON(p.name, resp, &payload); err != nil {
		return nil, err
	}

	n := min(len(payload.Places), travel.MaxAttractionsPerCategory)
	attractions := make([]travel.Attraction, 0, n)
	for _, pl := range payload.Places[:n] {
		a := travel.Attraction{Name: "Unknown", Address: "N/A"}
		if pl.DisplayName != nil && pl.DisplayName.Text != "" {
			a.Name = pl.DisplayName.Text
		}
		if pl.FormattedAddress != nil {
			a.Address = *pl.FormattedAddress
		}
		if pl.Rating != nil {
			a.Rating = travel.Rating{Value: *pl.Rating, Valid: true}
		}
		attractions = append(attractions, a)
	}

	p.logger.Debug("places fetched", "category", category, "count", len(attractions))
	return attractions, nil
}
