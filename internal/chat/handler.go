// Package chat turns one user message into one assistant reply. Slash
// commands are answered locally; everything else goes through the AI router
// with a role and knowledge preamble.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/indiimusic/indii/internal/knowledge"
	"github.com/indiimusic/indii/internal/logging"
	"github.com/indiimusic/indii/internal/metrics"
	"github.com/indiimusic/indii/internal/prompts"
	"github.com/indiimusic/indii/internal/roles"
	"github.com/indiimusic/indii/internal/router"
)

// ErrMessageRequired is returned for an empty or blank message.
var ErrMessageRequired = errors.New("message is required")

// Router is the part of router.Router the handler needs.
type Router interface {
	Route(ctx context.Context, message string, opts router.Options) (string, error)
	Available() []string
}

// Request is an incoming chat message.
type Request struct {
	Message string `json:"message"`
	Role    string `json:"role,omitempty"`
}

// Response is the reply to a Request.
type Response struct {
	Reply string `json:"reply"`
	Role  string `json:"role"`
}

// Handler answers chat requests. It holds no per-conversation state.
type Handler struct {
	router  Router
	roles   *roles.Registry
	kb      *knowledge.Base
	address string
	log     *logging.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithRoles sets the role registry. Defaults to the built-in roles.
func WithRoles(reg *roles.Registry) Option {
	return func(h *Handler) { h.roles = reg }
}

// WithKnowledge sets the knowledge base. Defaults to the embedded base.
func WithKnowledge(kb *knowledge.Base) Option {
	return func(h *Handler) { h.kb = kb }
}

// WithAddress sets the address reported by /status.
func WithAddress(addr string) Option {
	return func(h *Handler) { h.address = addr }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// NewHandler creates a chat handler backed by r.
func NewHandler(r Router, opts ...Option) *Handler {
	h := &Handler{
		router:  r,
		roles:   roles.Default(),
		kb:      knowledge.Default(),
		address: "localhost:2001",
		log:     logging.Global().WithComponent("chat"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Roles returns the handler's role registry.
func (h *Handler) Roles() *roles.Registry {
	return h.roles
}

// Handle answers one chat request. The role defaults to general.
func (h *Handler) Handle(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Response{}, ErrMessageRequired
	}

	roleID := req.Role
	if roleID == "" {
		roleID = roles.General
	}

	if strings.HasPrefix(req.Message, "/") {
		metrics.ChatMessages.WithLabelValues("command", roleID).Inc()
		return Response{Reply: h.command(req.Message, roleID), Role: roleID}, nil
	}

	if !h.aiConfigured() {
		metrics.ChatMessages.WithLabelValues("unconfigured", roles.General).Inc()
		return Response{Reply: h.notConfiguredReply(), Role: roles.General}, nil
	}

	metrics.ChatMessages.WithLabelValues("ai", roleID).Inc()

	message := req.Message
	if task := prompts.DetectTask(message); task != "" {
		h.log.Debug("Detected enhanced task %s", task)
		message = prompts.Tag(message, task)
	}

	role := h.roles.GetRoleByID(roleID)
	contextual, err := prompts.Contextual(message, h.kb.ForRole(roleID), role)
	if err != nil {
		return Response{}, fmt.Errorf("build prompt: %w", err)
	}

	text, err := h.router.Route(ctx, contextual, router.Options{Role: roleID})
	if err != nil {
		return Response{}, err
	}

	return Response{Reply: prompts.FormatReply(text, role), Role: roleID}, nil
}

// aiConfigured reports whether a provider that can generate is set up.
// Placeholder adapters do not count.
func (h *Handler) aiConfigured() bool {
	return len(h.router.Available()) > 0
}

func (h *Handler) notConfiguredReply() string {
	var lines []string
	for _, r := range h.roles.All() {
		lines = append(lines, fmt.Sprintf("%s %s - %s", r.Icon, r.Name, r.Description))
	}

	return `Hello! I'm your indii.music AI assistant.

I'm ready to help with:
` + strings.Join(lines, "\n") + `

However, I need to be configured with an API key first. Please provide your Gemini API key to enable AI responses.

For now, try these system commands:
/help - Show available commands
/roles - List all available roles
/demo - See enhanced AI capabilities
/status - Check system status`
}
