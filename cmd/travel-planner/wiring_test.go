package main

import (
	"net/http"
	"testing"

	"github.com/i474232898/retirement-travel-planner/internal/config"
)

func TestNewSourcesBuildsFreshProviders(t *testing.T) {
	c := &config.AppConfig{GoogleMapsAPIKey: "k"}
	a := newSources(c, http.DefaultClient, nil)
	b := newSources(c, http.DefaultClient, nil)

	if a.Resolver == b.Resolver || a.Weather == b.Weather ||
		a.AirQuality == b.AirQuality || a.Attractions == b.Attractions {
		t.Fatal("expected independent provider instances per call")
	}
}
