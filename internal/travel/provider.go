package travel

import "context"

// DefaultRadiusMeters is the search radius used when none is given.
const DefaultRadiusMeters = 5000

// MaxAttractionsPerCategory caps the attractions kept for each category.
const MaxAttractionsPerCategory = 5

// ReportCategories are the place categories fetched for every city report.
var ReportCategories = []string{"tourist_attraction", "museum", "park"}

// Resolver maps a free-text place name to a Place.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Place, error)
}

// WeatherFetcher returns current conditions at a coordinate.
type WeatherFetcher interface {
	FetchWeather(ctx context.Context, lat, lon float64) (WeatherReading, error)
}

// AirQualityFetcher returns the air quality at a coordinate.
type AirQualityFetcher interface {
	FetchAirQuality(ctx context.Context, lat, lon float64) (AirQualityReading, error)
}

// AttractionFinder returns nearby points of interest per category.
type AttractionFinder interface {
	FindAttractions(ctx context.Context, lat, lon float64, categories []string, radiusMeters int) (*AttractionSet, error)
}

// Sources bundles the four data sources used by both the aggregator and the tool catalog.
type Sources struct {
	Resolver    Resolver
	Weather     WeatherFetcher
	AirQuality  AirQualityFetcher
	Attractions AttractionFinder
}
