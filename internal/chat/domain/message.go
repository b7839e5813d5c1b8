package domain

import (
	"time"

	"github.com/google/uuid"
)

// Author identifies who produced a message.
type Author string

const (
	AuthorUser  Author = "user"
	AuthorAgent Author = "agent"
)

// Message is one entry in the append-only conversation history. Entries are
// never mutated after creation; quick-reply visibility is derived by the
// session (only the newest agent message still offers its options).
type Message struct {
	ID           uuid.UUID `json:"id"`
	Author       Author    `json:"author"`
	Text         string    `json:"text"`
	QuickReplies []string  `json:"quickReplies,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewAgentMessage creates an agent message, optionally with quick replies.
func NewAgentMessage(text string, quickReplies []string) Message {
	return Message{
		ID:           uuid.New(),
		Author:       AuthorAgent,
		Text:         text,
		QuickReplies: quickReplies,
		Timestamp:    time.Now(),
	}
}

// NewUserMessage creates a message authored by the visitor.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.New(),
		Author:    AuthorUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}
