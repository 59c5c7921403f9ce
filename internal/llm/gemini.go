package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini through the genai SDK.
type GeminiProvider struct {
	baseProvider
	client *genai.Client
}

// NewGeminiProvider creates a Gemini adapter. An API key is required.
func NewGeminiProvider(ctx context.Context, cfg *ProviderConfig) (*GeminiProvider, error) {
	base := newBaseProvider(cfg, Gemini)
	if base.config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     base.config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{},
	}
	if base.config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base.config.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{baseProvider: base, client: client}, nil
}

// Generate implements Provider.
func (p *GeminiProvider) Generate(ctx context.Context, message string, opts GenerateOptions) (string, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx,
		p.config.Model,
		genai.Text(FormatMessage(message, opts.Role)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(p.config.Temperature),
			MaxOutputTokens: p.config.MaxOutputTokens,
		},
	)
	if err != nil {
		if code, msg, ok := apiError(err); ok {
			return "", fmt.Errorf("gemini API error: %d - %s", code, msg)
		}
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

// HealthCheck implements Provider. It sends a minimal prompt and reports
// the HTTP status.
func (p *GeminiProvider) HealthCheck(ctx context.Context) Health {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	_, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text("Health check"), nil)
	if err == nil {
		return Health{Healthy: true, Status: http.StatusOK}
	}
	if code, _, ok := apiError(err); ok {
		return Health{Healthy: false, Status: code}
	}
	return Health{Healthy: false, Error: err.Error()}
}

// apiError extracts the HTTP code and message from a genai API error.
func apiError(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}
