package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"hashlife_backend/internal/chat/domain"
	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"
)

// captureBus records published events synchronously for assertions.
type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

func (b *captureBus) byName(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, ev := range b.events {
		if ev.EventName() == name {
			out = append(out, ev)
		}
	}
	return out
}

func newTestController(bus events.Bus) *Controller {
	cfg := scriptConfig{}
	return NewController(NewScript(cfg), bus, logger.New("test"), 0, false)
}

// scriptConfig is a minimal ChatConfig for tests.
type scriptConfig struct{}

func (scriptConfig) GetGreetingDelay() time.Duration    { return 0 }
func (scriptConfig) GetReplyTypingDelay() time.Duration { return 0 }
func (scriptConfig) GetSessionIdleTTL() time.Duration   { return time.Hour }
func (scriptConfig) GetCurrencySymbol() string          { return "$" }
func (scriptConfig) GetServiceArea() string             { return "Ontario" }
func (scriptConfig) GetAgencyName() string              { return "HashLife Insurance" }

func lastAgentMessage(t *testing.T, s *Session) domain.Message {
	t.Helper()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Author == domain.AuthorAgent {
			return s.messages[i]
		}
	}
	t.Fatalf("no agent message found")
	return domain.Message{}
}

// runHappyPath walks a full interview to the terminal step.
func runHappyPath(c *Controller, s *Session) {
	c.Start(s)
	c.Receive(s, ReplyGetStarted)
	c.Receive(s, "Alice")
	c.Receive(s, domain.InsuranceLife)
	c.Receive(s, domain.GenderFemale)
	c.Receive(s, "34")
	c.Receive(s, domain.SmokerNo)
	c.Receive(s, "$500K")
	c.Receive(s, "Nguyen")
	c.Receive(s, "alice@example.com")
	c.Receive(s, "(416) 555-0101")
}

func TestHappyPathCapturesLead(t *testing.T) {
	bus := &captureBus{}
	c := newTestController(bus)
	s := NewSession()

	runHappyPath(c, s)

	if s.step != domain.StepConfirmation {
		t.Fatalf("expected terminal step, got %q", s.step)
	}

	captured := bus.byName(events.LeadCaptured{}.EventName())
	if len(captured) != 1 {
		t.Fatalf("expected exactly one lead-captured event, got %d", len(captured))
	}

	ev := captured[0].(events.LeadCaptured)
	if !ev.Record.Complete() {
		t.Fatalf("expected captured record to be complete")
	}
	if ev.Record.FirstName != "Alice" || ev.Record.LastName != "Nguyen" {
		t.Fatalf("unexpected name in record: %q %q", ev.Record.FirstName, ev.Record.LastName)
	}
	if ev.Score != 100 {
		t.Fatalf("expected best-case score 100, got %d", ev.Score)
	}
	if ev.Quality != "High" {
		t.Fatalf("expected High quality, got %q", ev.Quality)
	}
	if len(ev.Transcript) == 0 {
		t.Fatalf("expected transcript in capture event")
	}

	snap := s.Snapshot()
	if snap.InputEnabled {
		t.Fatalf("expected input disabled at terminal step")
	}
}

func TestInvalidAnswerDoesNotAdvance(t *testing.T) {
	bus := &captureBus{}
	c := newTestController(bus)
	s := NewSession()

	c.Start(s)
	c.Receive(s, ReplyGetStarted)
	c.Receive(s, "Alice")
	c.Receive(s, domain.InsuranceLife)
	c.Receive(s, domain.GenderFemale)

	c.Receive(s, "17")
	if s.step != domain.StepAge {
		t.Fatalf("expected to stay on age step after invalid answer, got %q", s.step)
	}
	if s.record.Age != "" {
		t.Fatalf("expected record untouched by invalid answer, got %q", s.record.Age)
	}
	if msg := lastAgentMessage(t, s); !strings.Contains(msg.Text, "valid age between 18 and 100") {
		t.Fatalf("expected corrective age prompt, got %q", msg.Text)
	}

	if got := len(bus.byName(events.ValidationFailed{}.EventName())); got != 1 {
		t.Fatalf("expected one validation-failed event, got %d", got)
	}

	c.Receive(s, "34")
	if s.step != domain.StepSmoker {
		t.Fatalf("expected valid retry to advance to smoker step, got %q", s.step)
	}
	if s.record.Age != "34" {
		t.Fatalf("expected valid retry to write the record, got %q", s.record.Age)
	}
}

func TestWelcomeBranches(t *testing.T) {
	t.Run("learn more elaborates without advancing", func(t *testing.T) {
		c := newTestController(&captureBus{})
		s := NewSession()
		c.Start(s)

		c.Receive(s, ReplyLearnMore)
		if s.step != domain.StepWelcome {
			t.Fatalf("expected to stay on welcome, got %q", s.step)
		}
		if msg := lastAgentMessage(t, s); !strings.Contains(msg.Text, "LLQP") {
			t.Fatalf("expected elaboration, got %q", msg.Text)
		}

		// Affirmative from the elaboration's quick replies starts the interview.
		c.Receive(s, ReplyLetsStart)
		if s.step != domain.StepName {
			t.Fatalf("expected advance to name step, got %q", s.step)
		}
	})

	t.Run("not now says goodbye and minimizes", func(t *testing.T) {
		c := newTestController(&captureBus{})
		s := NewSession()
		c.Start(s)

		c.Receive(s, ReplyNotNow)
		if s.step != domain.StepWelcome {
			t.Fatalf("expected to stay on welcome, got %q", s.step)
		}

		snap := s.Snapshot()
		if snap.ShellCommand != ShellMinimize {
			t.Fatalf("expected minimize shell command, got %q", snap.ShellCommand)
		}
		// One-shot delivery: the next snapshot carries no command.
		if again := s.Snapshot(); again.ShellCommand != "" {
			t.Fatalf("expected shell command cleared, got %q", again.ShellCommand)
		}
	})

	t.Run("typed affirmative starts the interview", func(t *testing.T) {
		c := newTestController(&captureBus{})
		s := NewSession()
		c.Start(s)

		c.Receive(s, "yes please")
		if s.step != domain.StepName {
			t.Fatalf("expected typed yes to advance, got %q", s.step)
		}
	})
}

func TestSubmissionHappensExactlyOnce(t *testing.T) {
	bus := &captureBus{}
	c := newTestController(bus)
	s := NewSession()

	runHappyPath(c, s)

	// Free-typed input at the terminal step must not re-trigger capture.
	c.Receive(s, "thanks!")
	c.Receive(s, "hello?")

	if got := len(bus.byName(events.LeadCaptured{}.EventName())); got != 1 {
		t.Fatalf("expected exactly one lead-captured event, got %d", got)
	}
}

func TestResetRestartsConversation(t *testing.T) {
	bus := &captureBus{}
	c := newTestController(bus)
	s := NewSession()

	c.Start(s)
	c.Receive(s, ReplyGetStarted)
	c.Receive(s, "Alice")

	c.Reset(s)

	if s.step != domain.StepWelcome {
		t.Fatalf("expected reset to welcome, got %q", s.step)
	}
	if s.record.FirstName != "" {
		t.Fatalf("expected record cleared, got %q", s.record.FirstName)
	}
	if len(s.messages) != 1 {
		t.Fatalf("expected only the fresh greeting after reset, got %d messages", len(s.messages))
	}
	if got := len(bus.byName(events.ConversationReset{}.EventName())); got != 1 {
		t.Fatalf("expected one reset event, got %d", got)
	}

	// Idempotent: resetting an already-fresh session is harmless.
	c.Reset(s)
	if s.step != domain.StepWelcome || len(s.messages) != 1 {
		t.Fatalf("expected second reset to leave a fresh conversation")
	}
}

func TestStartNewQuoteAfterCompletion(t *testing.T) {
	bus := &captureBus{}
	c := newTestController(bus)
	s := NewSession()

	runHappyPath(c, s)
	c.Receive(s, ReplyStartNew)

	if s.step != domain.StepWelcome {
		t.Fatalf("expected restart at welcome, got %q", s.step)
	}
	if s.record.Submitted() {
		t.Fatalf("expected a fresh record after restart")
	}

	// The second interview captures a second, independent lead.
	runHappyPathSecondVisitor(c, s)
	if got := len(bus.byName(events.LeadCaptured{}.EventName())); got != 2 {
		t.Fatalf("expected two captures across two interviews, got %d", got)
	}
}

func runHappyPathSecondVisitor(c *Controller, s *Session) {
	c.Receive(s, ReplyGetStarted)
	c.Receive(s, "Bob")
	c.Receive(s, domain.InsuranceTravel)
	c.Receive(s, domain.GenderMale)
	c.Receive(s, "61")
	c.Receive(s, domain.SmokerFormer)
	c.Receive(s, domain.CoverageNotSure)
	c.Receive(s, "Okafor")
	c.Receive(s, "bob@example.com")
	c.Receive(s, "416-555-0199")
}

func TestCloseChatCommand(t *testing.T) {
	c := newTestController(&captureBus{})
	s := NewSession()

	runHappyPath(c, s)
	c.Receive(s, ReplyCloseChat)

	if snap := s.Snapshot(); snap.ShellCommand != ShellClose {
		t.Fatalf("expected close shell command, got %q", snap.ShellCommand)
	}
}

func TestStartIsNoOpAfterHistory(t *testing.T) {
	c := newTestController(&captureBus{})
	s := NewSession()

	c.Start(s)
	if len(s.messages) != 1 {
		t.Fatalf("expected one greeting message, got %d", len(s.messages))
	}
	c.Start(s)
	if len(s.messages) != 1 {
		t.Fatalf("expected duplicate start to be ignored, got %d messages", len(s.messages))
	}
}

func TestOptionStepRejectsFreeText(t *testing.T) {
	c := newTestController(&captureBus{})
	s := NewSession()

	c.Start(s)
	c.Receive(s, ReplyGetStarted)
	c.Receive(s, "Alice")

	c.Receive(s, "pet insurance")
	if s.step != domain.StepInsuranceType {
		t.Fatalf("expected to stay on insurance step, got %q", s.step)
	}
	if snap := s.Snapshot(); len(snap.QuickReplies) == 0 {
		t.Fatalf("expected re-prompt to re-offer the options")
	}

	// Typing an offered option verbatim is accepted.
	c.Receive(s, "travel insurance")
	if s.step != domain.StepGender {
		t.Fatalf("expected typed option to advance, got %q", s.step)
	}
	if s.record.InsuranceType != domain.InsuranceTravel {
		t.Fatalf("expected canonical option stored, got %q", s.record.InsuranceType)
	}
}
