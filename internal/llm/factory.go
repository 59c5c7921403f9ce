package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/indiimusic/indii/internal/config"
)

// KnownProviders lists every provider name the factory accepts, in default
// fallback order.
var KnownProviders = []string{Gemini, OpenAI, Anthropic}

// FromConfig converts the file configuration of one provider into a
// ProviderConfig, falling back to the vendor environment variable when no
// API key is set.
func FromConfig(name string, pc config.ProviderConfig) *ProviderConfig {
	apiKey := pc.APIKey
	if apiKey == "" {
		apiKey = getAPIKeyFromEnv(name)
	}

	return withDefaults(name, &ProviderConfig{
		Name:    name,
		BaseURL: pc.BaseURL,
		APIKey:  apiKey,
		Model:   pc.Model,
		Timeout: pc.Timeout,
	})
}

// getAPIKeyFromEnv retrieves the API key from standard environment variables.
func getAPIKeyFromEnv(providerName string) string {
	envVars := map[string]string{
		Gemini:    "GEMINI_API_KEY",
		OpenAI:    "OPENAI_API_KEY",
		Anthropic: "ANTHROPIC_API_KEY",
	}
	if envVar, ok := envVars[providerName]; ok {
		return os.Getenv(envVar)
	}
	return ""
}

// NewProvider creates the adapter for name. Every adapter is wrapped with
// MetricsProvider.
func NewProvider(ctx context.Context, name string, cfg *ProviderConfig) (Provider, error) {
	var provider Provider

	switch name {
	case Gemini:
		p, err := NewGeminiProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		provider = p
	case OpenAI:
		provider = NewOpenAIProvider(cfg)
	case Anthropic:
		provider = NewAnthropicProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}

	return NewMetricsProvider(provider), nil
}
