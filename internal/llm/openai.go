package llm

import (
	"context"
	"fmt"
)

// OpenAIProvider is a placeholder for the OpenAI chat API.
type OpenAIProvider struct {
	baseProvider
}

// NewOpenAIProvider creates the OpenAI placeholder.
func NewOpenAIProvider(cfg *ProviderConfig) *OpenAIProvider {
	return &OpenAIProvider{baseProvider: newBaseProvider(cfg, OpenAI)}
}

// Generate always fails with ErrNotImplemented.
func (p *OpenAIProvider) Generate(ctx context.Context, message string, opts GenerateOptions) (string, error) {
	return "", fmt.Errorf("OpenAI %w", ErrNotImplemented)
}

// HealthCheck reports the provider as unhealthy.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) Health {
	return Health{Healthy: false, Error: "OpenAI " + ErrNotImplemented.Error()}
}

func (p *OpenAIProvider) placeholder() {}
