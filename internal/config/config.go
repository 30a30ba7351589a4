package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/retirement-travel-planner/internal/common"
)

// ConfigurationError reports a required setting that is absent. It is fatal:
// commands check for it before doing any work.
type ConfigurationError struct {
	Key     string
	Purpose string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration %s (%s)", e.Key, e.Purpose)
}

// defaultModels is the model used per provider when LLM_MODEL is unset.
var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-20241022",
}

type AppConfig struct {
	GoogleMapsAPIKey string
	OpenAIAPIKey     string
	AnthropicAPIKey  string

	// Reasoning engine.
	LLMProvider    string
	LLMModel       string
	LLMTemperature float32
	LLMMaxTokens   int
	MaxIterations  int

	// HTTPTimeout bounds every upstream call.
	HTTPTimeout time.Duration

	OutputDir string
	Port      string

	// Scheduled reports.
	WatchCities   []string
	WatchInterval time.Duration

	// In-memory report retention.
	StoreMaxHistory int           // max number of reports kept (0 = unlimited)
	StoreMaxAge     time.Duration // max age of reports (0 = unlimited)

	LogLevel slog.Level
	AppEnv   string
}

// Load reads configuration from the environment, after an optional .env file.
// Missing credentials are not an error here; see RequireMaps and RequireEngine.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()
	cfg := &AppConfig{}

	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	cfg.LLMProvider = strings.ToLower(getenvDefault("LLM_PROVIDER", "openai"))
	if cfg.LLMProvider != "openai" && cfg.LLMProvider != "anthropic" {
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q: want openai or anthropic", cfg.LLMProvider)
	}
	cfg.LLMModel = getenvDefault("LLM_MODEL", defaultModels[cfg.LLMProvider])

	temp, err := strconv.ParseFloat(getenvDefault("LLM_TEMPERATURE", "0"), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}
	cfg.LLMTemperature = float32(temp)
	cfg.LLMMaxTokens = getenvInt("LLM_MAX_TOKENS", 1024)
	cfg.MaxIterations = getenvInt("AGENT_MAX_ITERATIONS", 10)

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.OutputDir = getenvDefault("OUTPUT_DIR", ".")
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.WatchCities = common.SplitCities(os.Getenv("WATCH_CITIES"))
	if cfg.WatchInterval, err = getenvDuration("WATCH_INTERVAL", "6h"); err != nil {
		return nil, err
	}
	if cfg.WatchInterval <= 0 {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL %s: must be positive", cfg.WatchInterval)
	}

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 20)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = parseLogLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	cfg.AppEnv = getenvDefault("APP_ENV", "dev")

	return cfg, nil
}

// RequireMaps checks the credential used by the geocoding, air quality and places providers.
func (c *AppConfig) RequireMaps() error {
	if c.GoogleMapsAPIKey == "" {
		return &ConfigurationError{Key: "GOOGLE_MAPS_API_KEY", Purpose: "geocoding, air quality and places"}
	}
	return nil
}

// RequireEngine checks the credential of the selected reasoning engine.
func (c *AppConfig) RequireEngine() error {
	switch c.LLMProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return &ConfigurationError{Key: "ANTHROPIC_API_KEY", Purpose: "reasoning engine"}
		}
	default:
		if c.OpenAIAPIKey == "" {
			return &ConfigurationError{Key: "OPENAI_API_KEY", Purpose: "reasoning engine"}
		}
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return l, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
