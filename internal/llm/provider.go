// Package llm provides the AI provider adapters used by the router.
// Gemini is backed by google.golang.org/genai; OpenAI and Anthropic are
// registered names whose adapters are not implemented yet.
package llm

import (
	"context"
	"errors"
	"time"
)

// Known provider names.
const (
	Gemini    = "gemini"
	OpenAI    = "openai"
	Anthropic = "anthropic"
)

// ErrNotImplemented is returned by adapters that exist only as placeholders.
var ErrNotImplemented = errors.New("provider not yet implemented")

// Provider generates a reply for one prompt.
type Provider interface {
	// Generate sends message to the model and returns its text.
	Generate(ctx context.Context, message string, opts GenerateOptions) (string, error)

	// HealthCheck probes the provider. Failures are reported in the
	// returned Health rather than as an error.
	HealthCheck(ctx context.Context) Health

	// Name returns the provider identifier.
	Name() string
}

// GenerateOptions carries per-request settings.
type GenerateOptions struct {
	// Role selects the persona prompt wrapped around the message.
	Role string
}

// Health is the result of a provider health probe.
type Health struct {
	Healthy bool   `json:"healthy"`
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProviderConfig contains configuration for an AI provider.
type ProviderConfig struct {
	// Name identifies the provider (gemini, openai, anthropic).
	Name string

	// BaseURL overrides the vendor endpoint.
	BaseURL string

	// APIKey for authentication.
	APIKey string

	// Model is the model to call.
	Model string

	// Temperature for generation.
	Temperature float32

	// MaxOutputTokens caps the reply length.
	MaxOutputTokens int32

	// Timeout bounds one Generate call.
	Timeout time.Duration
}

// DefaultConfig returns the defaults for a provider.
func DefaultConfig(name string) *ProviderConfig {
	switch name {
	case Gemini:
		return &ProviderConfig{
			Name:            Gemini,
			Model:           "gemini-1.5-flash",
			Temperature:     0.7,
			MaxOutputTokens: 2048,
			Timeout:         60 * time.Second,
		}
	case OpenAI:
		return &ProviderConfig{
			Name:            OpenAI,
			BaseURL:         "https://api.openai.com/v1",
			Temperature:     0.7,
			MaxOutputTokens: 2048,
			Timeout:         60 * time.Second,
		}
	case Anthropic:
		return &ProviderConfig{
			Name:            Anthropic,
			BaseURL:         "https://api.anthropic.com/v1",
			Temperature:     0.7,
			MaxOutputTokens: 2048,
			Timeout:         60 * time.Second,
		}
	default:
		return &ProviderConfig{
			Name:            name,
			Temperature:     0.7,
			MaxOutputTokens: 2048,
			Timeout:         60 * time.Second,
		}
	}
}

// withDefaults fills zero fields of cfg from DefaultConfig.
func withDefaults(name string, cfg *ProviderConfig) *ProviderConfig {
	d := DefaultConfig(name)
	if cfg == nil {
		return d
	}
	out := *cfg
	out.Name = name
	if out.BaseURL == "" {
		out.BaseURL = d.BaseURL
	}
	if out.Model == "" {
		out.Model = d.Model
	}
	if out.Temperature == 0 {
		out.Temperature = d.Temperature
	}
	if out.MaxOutputTokens == 0 {
		out.MaxOutputTokens = d.MaxOutputTokens
	}
	if out.Timeout == 0 {
		out.Timeout = d.Timeout
	}
	return &out
}

// ═══════════════════════════════════════════════════════════════════════════════
// BASE PROVIDER
// ═══════════════════════════════════════════════════════════════════════════════

// baseProvider holds the state shared by every adapter.
type baseProvider struct {
	config *ProviderConfig
}

func newBaseProvider(cfg *ProviderConfig, name string) baseProvider {
	return baseProvider{config: withDefaults(name, cfg)}
}

// Name implements Provider.
func (b *baseProvider) Name() string {
	return b.config.Name
}

// Config returns a copy of the effective configuration.
func (b *baseProvider) Config() ProviderConfig {
	return *b.config
}

// withTimeout bounds ctx by the configured timeout.
func (b *baseProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.config.Timeout)
}

// Implemented reports whether p can generate text. Decorators are unwrapped
// first; the OpenAI and Anthropic placeholders report false.
func Implemented(p Provider) bool {
	for p != nil {
		switch v := p.(type) {
		case placeholder:
			return false
		case interface{ Unwrap() Provider }:
			p = v.Unwrap()
		default:
			return true
		}
	}
	return false
}

type placeholder interface {
	placeholder()
}
