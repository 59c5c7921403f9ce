package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/indiimusic/indii/internal/chat"
	"github.com/indiimusic/indii/internal/metrics"
)

const (
	wsReadLimit    = 64 * 1024
	wsWriteTimeout = 10 * time.Second
)

// wsHandler serves chat over a WebSocket. Each text frame is a chat.Request
// and is answered with one chat.Message.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	metrics.ActiveWebSockets.Inc()
	defer metrics.ActiveWebSockets.Dec()

	ip := clientIP(r)
	log := s.log.WithField("remote", ip)
	log.Debug("WebSocket connected")

	for {
		var req chat.Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("WebSocket read error: %v", err)
			}
			return
		}

		reply := s.answer(r, ip, req)

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("WebSocket write error: %v", err)
			return
		}
	}
}

// answer turns one frame into the message sent back.
func (s *Server) answer(r *http.Request, ip string, req chat.Request) chat.Message {
	if !s.limiter.allow(ip) {
		metrics.RateLimited.Inc()
		return chat.ErrorMessage("Too many requests. Please slow down.")
	}

	resp, err := s.chat.Handle(r.Context(), req)
	switch {
	case errors.Is(err, chat.ErrMessageRequired):
		return chat.ErrorMessage("Message is required")
	case err != nil:
		s.log.Error("Chat WebSocket error: %v", err)
		return chat.ErrorMessage("Sorry, I encountered an error. Please try again.")
	}

	sender := chat.SenderBot
	if strings.HasPrefix(req.Message, "/") {
		sender = chat.SenderSystem
	}
	return chat.NewMessage(sender, resp.Reply, resp.Role)
}
