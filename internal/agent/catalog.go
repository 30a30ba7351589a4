package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

// Tool names exposed to the engine.
const (
	ToolGeocodeCity   = "geocode_city"
	ToolGetWeather    = "get_weather"
	ToolGetAirQuality = "get_air_quality"
	ToolGetPlaces     = "get_places"
)

var errUnknownTool = errors.New("unknown tool")

var validate = validator.New()

// GeocodeArgs are the arguments of geocode_city.
type GeocodeArgs struct {
	City string `json:"city" jsonschema_description:"City name, e.g. Lisbon, Portugal" validate:"required"`
}

// CoordinateArgs are the arguments of get_weather and get_air_quality.
// Coordinates are pointers so an omitted value is rejected rather than read as 0.
type CoordinateArgs struct {
	Latitude  *float64 `json:"latitude" jsonschema:"minimum=-90,maximum=90" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" jsonschema:"minimum=-180,maximum=180" validate:"required,gte=-180,lte=180"`
}

// PlacesArgs are the arguments of get_places.
type PlacesArgs struct {
	Latitude   *float64 `json:"latitude" jsonschema:"minimum=-90,maximum=90" validate:"required,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" jsonschema:"minimum=-180,maximum=180" validate:"required,gte=-180,lte=180"`
	PlaceTypes []string `json:"place_types" jsonschema_description:"Place categories, e.g. museum, park, tourist_attraction" validate:"required,min=1,dive,required"`
	Radius     int      `json:"radius,omitempty" jsonschema_description:"Search radius in meters, defaults to 5000" validate:"omitempty,gt=0,lte=50000"`
}

// ToolResult is the payload returned to the engine for every call, successful or not.
type ToolResult struct {
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Content renders the result as the JSON text handed back to the engine.
func (r ToolResult) Content() string {
	b, err := json.Marshal(r)
	if err != nil {
		b, _ = json.Marshal(ToolResult{Tool: r.Tool, Error: err.Error()})
	}
	return string(b)
}

type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// Catalog exposes the four data sources as named tools.
type Catalog struct {
	tools    []Tool
	handlers map[string]toolHandler
}

// NewCatalog wraps sources as tools.
func NewCatalog(sources travel.Sources) *Catalog {
	c := &Catalog{handlers: make(map[string]toolHandler)}

	c.register(ToolGeocodeCity, "Convert city to coordinates", &GeocodeArgs{},
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args GeocodeArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return sources.Resolver.Resolve(ctx, args.City)
		})

	c.register(ToolGetWeather, "Get weather for coordinates", &CoordinateArgs{},
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args CoordinateArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return sources.Weather.FetchWeather(ctx, *args.Latitude, *args.Longitude)
		})

	c.register(ToolGetAirQuality, "Get air quality for coordinates", &CoordinateArgs{},
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args CoordinateArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return sources.AirQuality.FetchAirQuality(ctx, *args.Latitude, *args.Longitude)
		})

	c.register(ToolGetPlaces, "Find nearby attractions", &PlacesArgs{},
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args PlacesArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			radius := args.Radius
			if radius == 0 {
				radius = travel.DefaultRadiusMeters
			}
			return sources.Attractions.FindAttractions(ctx, *args.Latitude, *args.Longitude, args.PlaceTypes, radius)
		})

	return c
}

func (c *Catalog) register(name, description string, args any, h toolHandler) {
	c.tools = append(c.tools, Tool{
		Name:        name,
		Description: description,
		Parameters:  reflectSchema(args),
	})
	c.handlers[name] = h
}

// Tools returns the catalog in registration order.
func (c *Catalog) Tools() []Tool {
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Execute runs one call. Failures, including unknown tools and bad arguments,
// are reported inside the result rather than returned.
func (c *Catalog) Execute(ctx context.Context, call ToolCall) ToolResult {
	h, ok := c.handlers[call.Name]
	if !ok {
		return ToolResult{Tool: call.Name, Error: fmt.Sprintf("%v: %s", errUnknownTool, call.Name)}
	}
	data, err := h(ctx, call.Arguments)
	if err != nil {
		return ToolResult{Tool: call.Name, Error: err.Error()}
	}
	return ToolResult{Tool: call.Name, Success: true, Data: data}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func reflectSchema(v any) *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := r.Reflect(v)
	s.Version = ""
	s.ID = ""
	return s
}
