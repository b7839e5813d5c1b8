// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"hashlife_backend/internal/chat/domain"
	"hashlife_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Conversation Events
// =============================================================================

// ConversationStarted is published when a chat session is created.
type ConversationStarted struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
}

func (e ConversationStarted) EventName() string { return "chat.conversation.started" }

// StepCompleted is published whenever a validated answer advances the dialogue.
type StepCompleted struct {
	BaseEvent
	SessionID        uuid.UUID `json:"sessionId"`
	Step             string    `json:"step"`
	Answer           string    `json:"answer"` // truncated for privacy
	UserMessageCount int       `json:"userMessageCount"`
}

func (e StepCompleted) EventName() string { return "chat.step.completed" }

// ValidationFailed is published when an answer is rejected and re-prompted.
// Recoverable and local to the turn; consumers use it for funnel analysis only.
type ValidationFailed struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Step      string    `json:"step"`
}

func (e ValidationFailed) EventName() string { return "chat.validation.failed" }

// LeadCaptured is published exactly once per completed record, when the
// conversation reaches its terminal step. Submission, analytics, email and
// follow-up scheduling all hang off this event.
type LeadCaptured struct {
	BaseEvent
	SessionID  uuid.UUID         `json:"sessionId"`
	Record     domain.LeadRecord `json:"record"`
	Score      int               `json:"score"`
	Quality    string            `json:"quality"`
	Transcript []domain.Message  `json:"transcript"`
}

func (e LeadCaptured) EventName() string { return "chat.lead.captured" }

// ConversationReset is published when the visitor starts over.
type ConversationReset struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	AtStep    string    `json:"atStep"`
}

func (e ConversationReset) EventName() string { return "chat.conversation.reset" }

// ChatDismissed is published when the shell is closed before completion.
type ChatDismissed struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	AtStep    string    `json:"atStep"`
}

func (e ChatDismissed) EventName() string { return "chat.dismissed" }

// =============================================================================
// Submission Events
// =============================================================================

// SubmissionSucceeded is published when a lead record reached storage.
type SubmissionSucceeded struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	LeadID    uuid.UUID `json:"leadId"`
}

func (e SubmissionSucceeded) EventName() string { return "submission.succeeded" }

// SubmissionFailed is published when the persistence handoff failed. The
// visitor has already seen the success message by then; operators watch this.
type SubmissionFailed struct {
	BaseEvent
	SessionID uuid.UUID `json:"sessionId"`
	Reason    string    `json:"reason"`
}

func (e SubmissionFailed) EventName() string { return "submission.failed" }
