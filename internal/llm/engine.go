// Package llm adapts hosted language models to agent.Engine.
package llm

import (
	"fmt"
	"net/http"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultMaxTokens is the response budget for providers that require one.
const DefaultMaxTokens = 1024

// Settings are the provider-independent generation parameters.
type Settings struct {
	Model       string
	Temperature float32
	MaxTokens   int
	HTTPClient  *http.Client
}

// Credentials holds the API keys of every supported provider.
type Credentials struct {
	OpenAIKey    string
	AnthropicKey string
}

// New returns the engine for provider.
func New(provider string, creds Credentials, s Settings) (agent.Engine, error) {
	switch provider {
	case ProviderOpenAI, "":
		return NewOpenAIEngine(creds.OpenAIKey, "", s), nil
	case ProviderAnthropic:
		return NewAnthropicEngine(creds.AnthropicKey, "", s), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", provider)
	}
}
