// Package chat provides the conversational lead-intake bounded context.
package chat

import (
	"sync"
	"time"

	"hashlife_backend/internal/chat/domain"

	"github.com/google/uuid"
)

// Shell commands the controller can hand to the presentation shell.
const (
	ShellMinimize = "minimize"
	ShellClose    = "close"
)

// Session holds one visitor's conversation: the current step, the lead
// record, and the append-only message history. It is created when the shell
// mounts and torn down on unmount or idle expiry. All mutation happens under
// mu; the controller processes one dialogue turn at a time per session.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	step     domain.Step
	record   *domain.LeadRecord
	messages []domain.Message
	score    int
	scored   bool

	// typingUntil simulates the agent composing its reply; the snapshot
	// reports isTyping until this deadline passes.
	typingUntil time.Time

	// shellCommand is a pending one-shot command for the shell, delivered
	// and cleared by the next snapshot.
	shellCommand string

	// greeting is the deferred first-greeting timer. Cancelled when the
	// session closes before it fires, so a stale prompt never appears.
	greeting *time.Timer

	closed    bool
	createdAt time.Time
	lastSeen  time.Time
}

// NewSession creates an empty conversation.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		step:      domain.StepWelcome,
		record:    &domain.LeadRecord{},
		createdAt: now,
		lastSeen:  now,
	}
}

// Snapshot is the read model the presentation shell renders.
type Snapshot struct {
	SessionID    uuid.UUID        `json:"sessionId"`
	Step         string           `json:"step"`
	Messages     []domain.Message `json:"messages"`
	IsTyping     bool             `json:"isTyping"`
	QuickReplies []string         `json:"quickReplies"`
	InputEnabled bool             `json:"inputEnabled"`
	ShellCommand string           `json:"shellCommand,omitempty"`
}

// Snapshot returns the current shell view and delivers any pending shell
// command exactly once.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.lastSeen = now

	messages := make([]domain.Message, len(s.messages))
	copy(messages, s.messages)

	snap := Snapshot{
		SessionID:    s.ID,
		Step:         s.step.String(),
		Messages:     messages,
		IsTyping:     now.Before(s.typingUntil),
		QuickReplies: s.currentQuickReplies(),
		InputEnabled: !s.step.Terminal(),
		ShellCommand: s.shellCommand,
	}
	s.shellCommand = ""
	return snap
}

// currentQuickReplies returns the options of the newest agent message,
// provided the visitor has not answered past it. Caller holds mu.
func (s *Session) currentQuickReplies() []string {
	for i := len(s.messages) - 1; i >= 0; i-- {
		msg := s.messages[i]
		if msg.Author == domain.AuthorUser {
			return nil
		}
		if len(msg.QuickReplies) > 0 {
			return msg.QuickReplies
		}
	}
	return nil
}

// appendAgent adds an agent message and extends the typing window so
// consecutive replies appear composed one after another. Caller holds mu.
func (s *Session) appendAgent(text string, quickReplies []string, typingDelay time.Duration) {
	s.messages = append(s.messages, domain.NewAgentMessage(text, quickReplies))
	base := time.Now()
	if s.typingUntil.After(base) {
		base = s.typingUntil
	}
	s.typingUntil = base.Add(typingDelay)
}

// appendUser adds a visitor message. Caller holds mu.
func (s *Session) appendUser(text string) {
	s.messages = append(s.messages, domain.NewUserMessage(text))
	s.lastSeen = time.Now()
}

// userMessageCount counts visitor messages for analytics. Caller holds mu.
func (s *Session) userMessageCount() int {
	count := 0
	for _, msg := range s.messages {
		if msg.Author == domain.AuthorUser {
			count++
		}
	}
	return count
}

// transcript returns a copy of the history for archival. Caller holds mu.
func (s *Session) transcript() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// idleSince reports the last visitor or shell activity.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
