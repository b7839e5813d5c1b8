// Package ops exposes the operator monitoring surface: intake funnel
// counters, recent submission failures and aggregate lead statistics.
package ops

import (
	"context"
	"sync"
	"time"

	"hashlife_backend/internal/chat/domain"
	"hashlife_backend/internal/events"
)

// maxFailures bounds the in-memory failure log.
const maxFailures = 100

// FailureRecord is one failed persistence handoff, kept for the operator.
type FailureRecord struct {
	SessionID string    `json:"sessionId"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

// FunnelSnapshot reports how far visitors get through the interview.
type FunnelSnapshot struct {
	Started          int            `json:"started"`
	StepCompleted    map[string]int `json:"stepCompleted"`
	ValidationFailed map[string]int `json:"validationFailed"`
	DismissedAtStep  map[string]int `json:"dismissedAtStep"`
	Resets           int            `json:"resets"`
	Captured         int            `json:"captured"`
}

// StatsSnapshot aggregates capture outcomes since process start.
type StatsSnapshot struct {
	Started              int            `json:"started"`
	Captured             int            `json:"captured"`
	SubmissionsSucceeded int            `json:"submissionsSucceeded"`
	SubmissionsFailed    int            `json:"submissionsFailed"`
	QualityCounts        map[string]int `json:"qualityCounts"`
	ScoreHistogram       map[string]int `json:"scoreHistogram"`
}

// Tracker accumulates intake counters from the event bus. All state is in
// memory and scoped to the process lifetime; durable reporting reads from
// the database instead.
type Tracker struct {
	mu sync.RWMutex

	started          int
	captured         int
	resets           int
	succeeded        int
	failed           int
	stepCompleted    map[string]int
	validationFailed map[string]int
	dismissedAtStep  map[string]int
	qualityCounts    map[string]int
	scoreHistogram   map[string]int

	failures []FailureRecord
}

func NewTracker() *Tracker {
	return &Tracker{
		stepCompleted:    make(map[string]int),
		validationFailed: make(map[string]int),
		dismissedAtStep:  make(map[string]int),
		qualityCounts:    make(map[string]int),
		scoreHistogram:   make(map[string]int),
	}
}

// Subscribe registers the tracker for every event it counts.
func (t *Tracker) Subscribe(bus events.Bus) {
	handler := events.HandlerFunc(t.handle)
	bus.Subscribe(events.ConversationStarted{}.EventName(), handler)
	bus.Subscribe(events.StepCompleted{}.EventName(), handler)
	bus.Subscribe(events.ValidationFailed{}.EventName(), handler)
	bus.Subscribe(events.LeadCaptured{}.EventName(), handler)
	bus.Subscribe(events.ChatDismissed{}.EventName(), handler)
	bus.Subscribe(events.ConversationReset{}.EventName(), handler)
	bus.Subscribe(events.SubmissionSucceeded{}.EventName(), handler)
	bus.Subscribe(events.SubmissionFailed{}.EventName(), handler)
}

func (t *Tracker) handle(_ context.Context, event events.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev := event.(type) {
	case events.ConversationStarted:
		t.started++
	case events.StepCompleted:
		t.stepCompleted[ev.Step]++
	case events.ValidationFailed:
		t.validationFailed[ev.Step]++
	case events.LeadCaptured:
		t.captured++
		t.qualityCounts[ev.Quality]++
		t.scoreHistogram[scoreBucket(ev.Score)]++
	case events.ChatDismissed:
		t.dismissedAtStep[ev.AtStep]++
	case events.ConversationReset:
		t.resets++
	case events.SubmissionSucceeded:
		t.succeeded++
	case events.SubmissionFailed:
		t.failed++
		t.failures = append(t.failures, FailureRecord{
			SessionID: ev.SessionID.String(),
			Reason:    ev.Reason,
			At:        ev.OccurredAt(),
		})
		if len(t.failures) > maxFailures {
			t.failures = t.failures[len(t.failures)-maxFailures:]
		}
	}
	return nil
}

// Funnel returns step-ordered funnel counters.
func (t *Tracker) Funnel() FunnelSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return FunnelSnapshot{
		Started:          t.started,
		StepCompleted:    copyCounts(t.stepCompleted),
		ValidationFailed: copyCounts(t.validationFailed),
		DismissedAtStep:  copyCounts(t.dismissedAtStep),
		Resets:           t.resets,
		Captured:         t.captured,
	}
}

// Failures returns the retained failure log, most recent last.
func (t *Tracker) Failures() []FailureRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]FailureRecord, len(t.failures))
	copy(out, t.failures)
	return out
}

// Stats returns aggregate counters.
func (t *Tracker) Stats() StatsSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return StatsSnapshot{
		Started:              t.started,
		Captured:             t.captured,
		SubmissionsSucceeded: t.succeeded,
		SubmissionsFailed:    t.failed,
		QualityCounts:        copyCounts(t.qualityCounts),
		ScoreHistogram:       copyCounts(t.scoreHistogram),
	}
}

// Steps returns the interview step names in dialogue order, for clients that
// want to render the funnel without hardcoding the order.
func Steps() []string {
	order := domain.Order()
	names := make([]string, len(order))
	for i, step := range order {
		names[i] = step.String()
	}
	return names
}

func scoreBucket(score int) string {
	switch {
	case score >= 75:
		return "75-100"
	case score >= 50:
		return "50-74"
	case score >= 25:
		return "25-49"
	default:
		return "0-24"
	}
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
