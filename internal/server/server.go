// Package server exposes the chat handler over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/indiimusic/indii/internal/chat"
	"github.com/indiimusic/indii/internal/config"
	"github.com/indiimusic/indii/internal/knowledge"
	"github.com/indiimusic/indii/internal/llm"
	"github.com/indiimusic/indii/internal/logging"
)

// maxBodyBytes bounds a chat request body.
const maxBodyBytes = 1 << 20

// Providers is the router view the server reports on.
type Providers interface {
	HealthCheck(ctx context.Context) map[string]llm.Health
	Configured() []string
	Available() []string
	Stats() []llm.Stats
}

// Server represents the HTTP server.
type Server struct {
	cfg        config.ServerConfig
	chat       *chat.Handler
	providers  Providers
	kb         *knowledge.Base
	limiter    *ipLimiter
	upgrader   websocket.Upgrader
	httpServer *http.Server
	startTime  time.Time
	log        *logging.Logger
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// LivenessResponse is returned by /healthz.
type LivenessResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	Configured []string    `json:"configured"`
	Available  []string    `json:"available"`
	Providers  []llm.Stats `json:"providers"`
	Roles      int         `json:"roles"`
	Uptime     string      `json:"uptime"`
}

// New creates a new HTTP server.
func New(cfg config.ServerConfig, h *chat.Handler, p Providers, kb *knowledge.Base) *Server {
	if kb == nil {
		kb = knowledge.Default()
	}

	s := &Server{
		cfg:       cfg,
		chat:      h,
		providers: p,
		kb:        kb,
		limiter:   newIPLimiter(cfg.RateLimit, cfg.RateBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		startTime: time.Now(),
		log:       logging.Global().WithComponent("server"),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/chat", s.rateLimit(http.HandlerFunc(s.chatHandler)))
	mux.HandleFunc("GET /api/chat/ws", s.wsHandler)
	mux.HandleFunc("GET /api/health", s.healthHandler)
	mux.HandleFunc("GET /api/status", s.statusHandler)
	mux.HandleFunc("GET /api/roles", s.rolesHandler)
	mux.HandleFunc("GET /api/knowledge/search", s.knowledgeSearchHandler)
	mux.HandleFunc("GET /healthz", s.livenessHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.instrument(mux)
}

// Start starts the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.log.Info("HTTP server starting on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// ═══════════════════════════════════════════════════════════════════════════════
// HANDLERS
// ═══════════════════════════════════════════════════════════════════════════════

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method), "")
		return
	}

	var req chat.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	resp, err := s.chat.Handle(r.Context(), req)
	if err != nil {
		if errors.Is(err, chat.ErrMessageRequired) {
			writeError(w, http.StatusBadRequest, "Message is required", "")
			return
		}
		s.log.Error("Chat API error: %v", err)
		writeError(w, http.StatusInternalServerError, "Sorry, I encountered an error. Please try again.", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.providers.HealthCheck(r.Context()))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	configured := s.providers.Configured()
	if configured == nil {
		configured = []string{}
	}
	available := s.providers.Available()
	if available == nil {
		available = []string{}
	}
	stats := s.providers.Stats()
	if stats == nil {
		stats = []llm.Stats{}
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Configured: configured,
		Available:  available,
		Providers:  stats,
		Roles:      s.chat.Roles().Len(),
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) rolesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.chat.Roles().All())
}

func (s *Server) knowledgeSearchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required", "")
		return
	}

	results := s.kb.Search(q, r.URL.Query().Get("role"))
	if results == nil {
		results = []knowledge.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) livenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}
