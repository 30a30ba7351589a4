package main

import (
	"log/slog"
	"net/http"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
	"github.com/i474232898/retirement-travel-planner/internal/config"
	"github.com/i474232898/retirement-travel-planner/internal/llm"
	"github.com/i474232898/retirement-travel-planner/internal/travel"
	"github.com/i474232898/retirement-travel-planner/internal/travel/providers"
)

// newSources builds a fresh set of the four upstream providers over client.
func newSources(cfg *config.AppConfig, client *http.Client, logger *slog.Logger) travel.Sources {
	opt := providers.WithLogger(logger)
	return travel.Sources{
		Resolver:    providers.NewGoogleGeocoder(client, cfg.GoogleMapsAPIKey, opt),
		Weather:     providers.NewOpenMeteoProvider(client, opt),
		AirQuality:  providers.NewGoogleAirQualityProvider(client, cfg.GoogleMapsAPIKey, opt),
		Attractions: providers.NewGooglePlacesProvider(client, cfg.GoogleMapsAPIKey, opt),
	}
}

// newDispatcher connects the configured reasoning engine to a tool catalog over its
// own providers, so tool calls and detailed reports never share circuit state.
func newDispatcher(cfg *config.AppConfig, client *http.Client, logger *slog.Logger) (*agent.Dispatcher, error) {
	engine, err := llm.New(cfg.LLMProvider, llm.Credentials{
		OpenAIKey:    cfg.OpenAIAPIKey,
		AnthropicKey: cfg.AnthropicAPIKey,
	}, llm.Settings{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return agent.NewDispatcher(engine, agent.NewCatalog(newSources(cfg, client, logger)),
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithLogger(logger),
	), nil
}
