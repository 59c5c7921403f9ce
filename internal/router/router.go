// Package router dispatches prompts to AI providers. A request goes to the
// named provider first and then walks the fallback order until one
// succeeds.
package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/indiimusic/indii/internal/config"
	"github.com/indiimusic/indii/internal/llm"
	"github.com/indiimusic/indii/internal/logging"
	"github.com/indiimusic/indii/internal/metrics"
)

// DefaultRole is the role passed to providers when a request names none.
const DefaultRole = "assistant"

// ErrAllProvidersFailed is returned by Route when no provider produced a
// reply. The returned error also wraps each individual failure.
var ErrAllProvidersFailed = errors.New("all AI providers failed")

// Options selects the provider and role for one Route call.
type Options struct {
	Provider string
	Role     string
}

// Router holds the provider registry. Every known name has a slot; a nil
// slot means the provider is not configured.
type Router struct {
	mu              sync.RWMutex
	providers       map[string]llm.Provider
	names           []string
	defaultProvider string
	fallbackOrder   []string
	log             *logging.Logger
}

// New creates a router with the default provider set: gemini, openai and
// anthropic, all unconfigured, with gemini as the default.
func New() *Router {
	return NewWithOrder(llm.Gemini, llm.KnownProviders)
}

// NewWithOrder creates a router with an explicit default provider and
// fallback order. Every name in the order becomes a known slot.
func NewWithOrder(defaultProvider string, fallbackOrder []string) *Router {
	r := &Router{
		providers:       make(map[string]llm.Provider),
		defaultProvider: defaultProvider,
		fallbackOrder:   append([]string(nil), fallbackOrder...),
		log:             logging.Global().WithComponent("router"),
	}
	for _, name := range fallbackOrder {
		r.addSlot(name)
	}
	r.addSlot(defaultProvider)
	return r
}

func (r *Router) addSlot(name string) {
	if _, ok := r.providers[name]; ok {
		return
	}
	r.providers[name] = nil
	r.names = append(r.names, name)
}

// FromConfig builds a router from configuration and initializes every
// provider that has an API key, from the file or the environment.
func FromConfig(ctx context.Context, cfg *config.Config) (*Router, error) {
	r := NewWithOrder(cfg.LLM.DefaultProvider, cfg.LLM.FallbackOrder)

	r.mu.RLock()
	names := append([]string(nil), r.names...)
	r.mu.RUnlock()

	for _, name := range names {
		pc := llm.FromConfig(name, cfg.LLM.Providers[name])
		if pc.APIKey == "" {
			r.log.Debug("Provider %s has no API key, leaving unconfigured", name)
			continue
		}
		if err := r.InitializeProvider(ctx, name, pc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// InitializeProvider constructs the adapter for name and stores it.
func (r *Router) InitializeProvider(ctx context.Context, name string, cfg *llm.ProviderConfig) error {
	p, err := llm.NewProvider(ctx, name, cfg)
	if err != nil {
		return fmt.Errorf("initialize provider %s: %w", name, err)
	}
	r.Register(name, p)
	return nil
}

// Register stores an already-built provider under name, adding the name to
// the known set if needed.
func (r *Router) Register(name string, p llm.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addSlot(name)
	r.providers[name] = p
	r.log.Info("Provider %s configured", name)
}

// Route sends message to the requested provider, or the default one, and
// falls back through the fallback order on failure. The first successful
// reply is returned unmodified.
func (r *Router) Route(ctx context.Context, message string, opts Options) (string, error) {
	primary := opts.Provider
	if primary == "" {
		primary = r.defaultProvider
	}
	role := opts.Role
	if role == "" {
		role = DefaultRole
	}
	genOpts := llm.GenerateOptions{Role: role}

	r.mu.RLock()
	first := r.providers[primary]
	order := make([]llm.Provider, 0, len(r.fallbackOrder))
	orderNames := make([]string, 0, len(r.fallbackOrder))
	for _, name := range r.fallbackOrder {
		if name == primary || r.providers[name] == nil {
			continue
		}
		order = append(order, r.providers[name])
		orderNames = append(orderNames, name)
	}
	r.mu.RUnlock()

	var errs []error

	if first != nil {
		text, err := first.Generate(ctx, message, genOpts)
		if err == nil {
			return text, nil
		}
		r.log.Error("Primary provider %s failed: %v", primary, err)
		errs = append(errs, fmt.Errorf("%s: %w", primary, err))
	}

	for i, p := range order {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		name := orderNames[i]
		metrics.RouteFallbacks.WithLabelValues(name).Inc()

		text, err := p.Generate(ctx, message, genOpts)
		if err == nil {
			r.log.Info("Fallback provider %s answered", name)
			return text, nil
		}
		r.log.Error("Fallback provider %s failed: %v", name, err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}

	metrics.RouteFailures.Inc()
	return "", errors.Join(append([]error{ErrAllProvidersFailed}, errs...)...)
}

// HealthCheck probes every known provider concurrently. Unconfigured
// providers report "Not configured"; a provider that panics is reported as
// unhealthy without affecting the others.
func (r *Router) HealthCheck(ctx context.Context) map[string]llm.Health {
	r.mu.RLock()
	snapshot := make(map[string]llm.Provider, len(r.providers))
	for name, p := range r.providers {
		snapshot[name] = p
	}
	r.mu.RUnlock()

	var (
		mu     sync.Mutex
		status = make(map[string]llm.Health, len(snapshot))
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, p := range snapshot {
		if p == nil {
			status[name] = llm.Health{Healthy: false, Error: "Not configured"}
			continue
		}
		g.Go(func() error {
			h := probe(gctx, p)
			mu.Lock()
			status[name] = h
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return status
}

func probe(ctx context.Context, p llm.Provider) (h llm.Health) {
	defer func() {
		if rec := recover(); rec != nil {
			h = llm.Health{Healthy: false, Error: fmt.Sprint(rec)}
		}
	}()
	return p.HealthCheck(ctx)
}

// Configured returns the names of configured providers in fallback order,
// followed by any others in registration order.
func (r *Router) Configured() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configuredLocked()
}

func (r *Router) configuredLocked() []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range r.fallbackOrder {
		if r.providers[name] != nil && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	for _, name := range r.names {
		if r.providers[name] != nil && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	return out
}

// Available returns the configured providers that can generate text.
// Placeholder adapters are configured but never available.
func (r *Router) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, name := range r.configuredLocked() {
		if llm.Implemented(r.providers[name]) {
			out = append(out, name)
		}
	}
	return out
}

// IsConfigured reports whether any provider is configured.
func (r *Router) IsConfigured() bool {
	return len(r.Configured()) > 0
}

// Providers returns every known provider name.
func (r *Router) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Stats returns call statistics for configured providers that record them.
func (r *Router) Stats() []llm.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []llm.Stats
	for _, name := range r.names {
		if mp, ok := r.providers[name].(interface{ Stats() llm.Stats }); ok {
			out = append(out, mp.Stats())
		}
	}
	return out
}

// DefaultProvider returns the provider tried first when a request names
// none.
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}
