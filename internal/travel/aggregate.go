package travel

import (
	"context"
	"fmt"
	"log/slog"
)

// Aggregator drives the four data sources for a batch of cities and builds a TravelReport.
type Aggregator struct {
	sources    Sources
	categories []string
	radius     int
	logger     *slog.Logger
}

// AggregatorOption customizes an Aggregator.
type AggregatorOption func(*Aggregator)

// WithLogger sets the structured logger used for per-city diagnostics.
func WithLogger(l *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = l
	}
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(sources Sources, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		sources:    sources,
		categories: ReportCategories,
		radius:     DefaultRadiusMeters,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run processes cities in order into a new report with its own transcript.
func (a *Aggregator) Run(ctx context.Context, cities []string) *TravelReport {
	report := NewTravelReport(nil)
	a.RunInto(ctx, report, cities)
	return report
}

// RunInto processes cities strictly in order, appending to an existing report.
// A failure for one city is logged as a single transcript line and never stops the batch.
func (a *Aggregator) RunInto(ctx context.Context, report *TravelReport, cities []string) {
	for _, city := range cities {
		writeSectionHeader(report.Transcript, city)

		place, cityReport, err := a.processCity(ctx, city)
		if err != nil {
			a.logger.Warn("city processing failed", "city", city, "error", err)
			report.Transcript.Log(fmt.Sprintf("Error processing %s: %v", city, err))
			continue
		}

		writeCitySection(report.Transcript, place, cityReport)
		report.Cities.Set(city, cityReport)
	}
}

// processCity runs resolve, weather, air quality and attractions in sequence.
func (a *Aggregator) processCity(ctx context.Context, city string) (Place, CityReport, error) {
	place, err := a.sources.Resolver.Resolve(ctx, city)
	if err != nil {
		return Place{}, CityReport{}, err
	}

	weather, err := a.sources.Weather.FetchWeather(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return Place{}, CityReport{}, err
	}

	air, err := a.sources.AirQuality.FetchAirQuality(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return Place{}, CityReport{}, err
	}

	places, err := a.sources.Attractions.FindAttractions(ctx, place.Latitude, place.Longitude, a.categories, a.radius)
	if err != nil {
		return Place{}, CityReport{}, err
	}

	a.logger.Debug("city processed", "city", city, "location", place.Name)
	return place, NewCityReport(place, weather, air, places), nil
}
