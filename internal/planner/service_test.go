package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/retirement-travel-planner/internal/store"
	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

type staticSources struct{}

func (staticSources) Resolve(_ context.Context, q string) (travel.Place, error) {
	if q == "Nowhereville" {
		return travel.Place{}, &travel.NotFoundError{Query: q}
	}
	return travel.Place{Name: q + ", Earth", Latitude: 1, Longitude: 2}, nil
}

func (staticSources) FetchWeather(context.Context, float64, float64) (travel.WeatherReading, error) {
	return travel.WeatherReading{TemperatureC: 15, Condition: "Overcast", ClothingRecommendation: travel.ClothingLight}, nil
}

func (staticSources) FetchAirQuality(context.Context, float64, float64) (travel.AirQualityReading, error) {
	return travel.AirQualityReading{AQI: travel.NewAQI(70), Category: "Moderate", HealthRecommendation: travel.HealthModerate}, nil
}

func (staticSources) FindAttractions(_ context.Context, _, _ float64, categories []string, _ int) (*travel.AttractionSet, error) {
	set := travel.NewAttractionSet()
	for _, c := range categories {
		set.Set(c, nil)
	}
	return set, nil
}

// newTestService returns a Service over static sources.
func newTestService(sink store.Sink) *Service {
	src := staticSources{}
	agg := travel.NewAggregator(travel.Sources{Resolver: src, Weather: src, AirQuality: src, Attractions: src})
	return NewService(agg, nil, store.NewMemoryStore(5, time.Hour), sink, nil)
}

type countingSink struct{ n int }

func (c *countingSink) Save(context.Context, *travel.TravelReport) error {
	c.n++
	return nil
}

func TestServiceReport(t *testing.T) {
	sink := &countingSink{}
	svc := newTestService(sink)

	report, err := svc.Report(context.Background(), []string{"Lisbon", "Nowhereville"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Cities.Len() != 1 {
		t.Fatalf("expected 1 city, got %d", report.Cities.Len())
	}
	if sink.n != 1 {
		t.Fatalf("expected report persisted once, got %d", sink.n)
	}

	latest, err := svc.Latest()
	if err != nil || latest != report {
		t.Fatalf("expected stored report, got %v %v", latest, err)
	}
	if got, err := svc.Get(report.ID); err != nil || got != report {
		t.Fatalf("expected report by id, got %v %v", got, err)
	}
}

func TestServiceReportNoCities(t *testing.T) {
	if _, err := newTestService(nil).Report(context.Background(), nil); !errors.Is(err, ErrNoCities) {
		t.Fatalf("expected ErrNoCities, got %v", err)
	}
}

func TestServicePlanWithoutEngine(t *testing.T) {
	if _, err := newTestService(nil).Plan(context.Background(), "hi"); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
}
