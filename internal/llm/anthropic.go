package llm

import (
	"context"
	"fmt"
)

// AnthropicProvider is a placeholder for the Anthropic messages API.
type AnthropicProvider struct {
	baseProvider
}

// NewAnthropicProvider creates the Anthropic placeholder.
func NewAnthropicProvider(cfg *ProviderConfig) *AnthropicProvider {
	return &AnthropicProvider{baseProvider: newBaseProvider(cfg, Anthropic)}
}

// Generate always fails with ErrNotImplemented.
func (p *AnthropicProvider) Generate(ctx context.Context, message string, opts GenerateOptions) (string, error) {
	return "", fmt.Errorf("Anthropic %w", ErrNotImplemented)
}

// HealthCheck reports the provider as unhealthy.
func (p *AnthropicProvider) HealthCheck(ctx context.Context) Health {
	return Health{Healthy: false, Error: "Anthropic " + ErrNotImplemented.Error()}
}

func (p *AnthropicProvider) placeholder() {}
