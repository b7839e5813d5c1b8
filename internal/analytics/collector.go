// Package analytics emits conversation telemetry to external collectors.
// Emission is strictly fire-and-forget: a slow or failing collector is logged
// and never observed by the dialogue or submission paths.
package analytics

import (
	"context"
)

// Tracked event names, mirroring the site tags fired by the embedded widget.
const (
	EventChatStarted      = "chatbot_started"
	EventStepCompleted    = "chatbot_step_completed"
	EventValidationFailed = "chatbot_validation_failed"
	EventLeadCaptured     = "chatbot_lead_captured"
	EventChatDismissed    = "chatbot_dismissed"
	EventChatReset        = "chatbot_reset"
	EventSubmissionFailed = "chatbot_submission_failed"
)

// TrackedEvent is the collector-facing projection of a domain event. It
// carries only coarse funnel data, never answer values.
type TrackedEvent struct {
	Name      string
	SessionID string
	Params    map[string]any
}

// Collector delivers tracked events to one analytics destination.
type Collector interface {
	// Name identifies the collector in dispatch logs.
	Name() string
	// Collect delivers one event. Implementations should honor ctx deadlines.
	Collect(ctx context.Context, ev TrackedEvent) error
}
