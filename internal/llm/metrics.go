package llm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indiimusic/indii/internal/logging"
	"github.com/indiimusic/indii/internal/metrics"
)

// MetricsProvider wraps a provider with call counting and latency tracking.
// Counts are exported to Prometheus and kept locally for Stats.
type MetricsProvider struct {
	provider Provider
	name     string
	log      *logging.Logger

	totalCalls  int64
	totalErrors int64

	mu           sync.RWMutex
	totalLatency time.Duration
	maxLatency   time.Duration
	lastError    string
}

// Stats is a snapshot of a provider's call history.
type Stats struct {
	Provider   string        `json:"provider"`
	Calls      int64         `json:"calls"`
	Errors     int64         `json:"errors"`
	AvgLatency time.Duration `json:"avg_latency"`
	MaxLatency time.Duration `json:"max_latency"`
	LastError  string        `json:"last_error,omitempty"`
}

// NewMetricsProvider wraps provider with metrics collection.
func NewMetricsProvider(provider Provider) *MetricsProvider {
	return &MetricsProvider{
		provider: provider,
		name:     provider.Name(),
		log:      logging.Global().WithComponent("llm"),
	}
}

// Generate implements Provider with metrics.
func (m *MetricsProvider) Generate(ctx context.Context, message string, opts GenerateOptions) (string, error) {
	start := time.Now()
	m.log.Debug("[LLM-Metrics] Starting %s call (role=%s)", m.name, opts.Role)

	text, err := m.provider.Generate(ctx, message, opts)

	latency := time.Since(start)
	atomic.AddInt64(&m.totalCalls, 1)

	outcome := "success"
	if err != nil {
		outcome = "error"
		atomic.AddInt64(&m.totalErrors, 1)
	}
	metrics.ProviderCalls.WithLabelValues(m.name, outcome).Inc()
	metrics.ProviderLatency.WithLabelValues(m.name).Observe(latency.Seconds())

	m.mu.Lock()
	m.totalLatency += latency
	if latency > m.maxLatency {
		m.maxLatency = latency
	}
	if err != nil {
		m.lastError = err.Error()
	}
	m.mu.Unlock()

	if err != nil {
		m.log.Warn("[LLM-Metrics] %s FAILED after %v: %v", m.name, latency, err)
	} else {
		m.log.Info("[LLM-Metrics] %s completed in %v (%d chars)", m.name, latency, len(text))
	}

	return text, err
}

// HealthCheck implements Provider.
func (m *MetricsProvider) HealthCheck(ctx context.Context) Health {
	return m.provider.HealthCheck(ctx)
}

// Name implements Provider.
func (m *MetricsProvider) Name() string {
	return m.name
}

// Unwrap returns the wrapped provider.
func (m *MetricsProvider) Unwrap() Provider {
	return m.provider
}

// Stats returns current metrics.
func (m *MetricsProvider) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := atomic.LoadInt64(&m.totalCalls)
	var avg time.Duration
	if calls > 0 {
		avg = m.totalLatency / time.Duration(calls)
	}

	return Stats{
		Provider:   m.name,
		Calls:      calls,
		Errors:     atomic.LoadInt64(&m.totalErrors),
		AvgLatency: avg,
		MaxLatency: m.maxLatency,
		LastError:  m.lastError,
	}
}
