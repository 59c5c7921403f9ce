// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indii_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "indii_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "indii_http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indii_provider_calls_total",
			Help: "Generate calls per AI provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indii_provider_latency_seconds",
			Help:    "Generate latency per AI provider",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	RouteFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indii_router_fallbacks_total",
			Help: "Times a fallback provider was tried after the requested one failed",
		},
		[]string{"provider"},
	)

	RouteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "indii_router_failures_total",
			Help: "Route calls where every provider failed",
		},
	)

	ChatMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indii_chat_messages_total",
			Help: "Chat messages handled by path (command, ai, unconfigured) and role",
		},
		[]string{"path", "role"},
	)

	ActiveWebSockets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "indii_websocket_connections",
			Help: "Number of open chat WebSocket connections",
		},
	)
)
