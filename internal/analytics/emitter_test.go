package analytics

import (
	"context"
	"sync"
	"testing"

	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeCollector struct {
	mu     sync.Mutex
	name   string
	events []TrackedEvent
	panics bool
}

func (c *fakeCollector) Name() string { return c.name }

func (c *fakeCollector) Collect(_ context.Context, ev TrackedEvent) error {
	if c.panics {
		panic("collector exploded")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeCollector) collected() []TrackedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TrackedEvent, len(c.events))
	copy(out, c.events)
	return out
}

func TestEmitFansOutToAllCollectors(t *testing.T) {
	a := &fakeCollector{name: "a"}
	b := &fakeCollector{name: "b"}
	e := NewEmitter(logger.New("test"), a, b)

	e.Emit(TrackedEvent{Name: EventChatStarted, SessionID: "s1"})
	e.Wait()

	for _, c := range []*fakeCollector{a, b} {
		got := c.collected()
		if len(got) != 1 || got[0].Name != EventChatStarted {
			t.Fatalf("collector %s: expected one chat-started event, got %v", c.name, got)
		}
	}
}

func TestEmitWithZeroCollectorsIsNoOp(t *testing.T) {
	e := NewEmitter(logger.New("test"))
	e.Emit(TrackedEvent{Name: EventChatStarted})
	e.Wait()
}

func TestPanickingCollectorDoesNotStarveOthers(t *testing.T) {
	bad := &fakeCollector{name: "bad", panics: true}
	good := &fakeCollector{name: "good"}
	e := NewEmitter(logger.New("test"), bad, good)

	e.Emit(TrackedEvent{Name: EventLeadCaptured, SessionID: "s1"})
	e.Wait()

	if got := good.collected(); len(got) != 1 {
		t.Fatalf("expected healthy collector to receive the event, got %d", len(got))
	}
}

func TestTranslate(t *testing.T) {
	sessionID := uuid.New()

	tests := []struct {
		name  string
		event events.Event
		want  string
	}{
		{"started", events.ConversationStarted{SessionID: sessionID}, EventChatStarted},
		{"step", events.StepCompleted{SessionID: sessionID, Step: "age", UserMessageCount: 5}, EventStepCompleted},
		{"validation", events.ValidationFailed{SessionID: sessionID, Step: "age"}, EventValidationFailed},
		{"captured", events.LeadCaptured{SessionID: sessionID, Score: 80, Quality: "High"}, EventLeadCaptured},
		{"dismissed", events.ChatDismissed{SessionID: sessionID, AtStep: "email"}, EventChatDismissed},
		{"reset", events.ConversationReset{SessionID: sessionID, AtStep: "age"}, EventChatReset},
		{"submission failed", events.SubmissionFailed{SessionID: sessionID}, EventSubmissionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracked, ok := translate(tt.event)
			if !ok {
				t.Fatalf("expected event to translate")
			}
			if tracked.Name != tt.want {
				t.Fatalf("expected tracked name %q, got %q", tt.want, tracked.Name)
			}
			if tracked.SessionID != sessionID.String() {
				t.Fatalf("expected session id carried over")
			}
		})
	}

	if _, ok := translate(events.SubmissionSucceeded{}); ok {
		t.Fatalf("expected submission-succeeded to be untracked")
	}
}

func TestTranslateOmitsAnswerValues(t *testing.T) {
	tracked, ok := translate(events.StepCompleted{
		SessionID:        uuid.New(),
		Step:             "email",
		Answer:           "alice@example.com",
		UserMessageCount: 7,
	})
	if !ok {
		t.Fatalf("expected event to translate")
	}
	for _, v := range tracked.Params {
		if v == "alice@example.com" {
			t.Fatalf("expected answer value to stay out of analytics params")
		}
	}
}
