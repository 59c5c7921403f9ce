package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a Message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// Message is one chat turn as exchanged with clients. Messages are never
// persisted.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Role      string    `json:"role,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	IsError   bool      `json:"isError,omitempty"`
}

// NewMessage creates a message with a fresh id and the current time.
func NewMessage(sender Sender, text, role string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Role:      role,
		Timestamp: time.Now().UTC(),
	}
}

// ErrorMessage creates a system message flagged as an error.
func ErrorMessage(text string) Message {
	m := NewMessage(SenderSystem, text, "")
	m.IsError = true
	return m
}
