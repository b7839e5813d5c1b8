package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hashlife_backend/internal/chat/domain"
	"hashlife_backend/internal/chat/scoring"
	"hashlife_backend/internal/chat/validate"
	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"
)

// maxAnswerPreview bounds how much of a visitor answer leaves the session in
// analytics events.
const maxAnswerPreview = 50

// Controller drives the dialogue state machine. It owns no I/O of its own:
// side effects (persistence, analytics, email, scheduling) are published as
// domain events and handled by independent background subscribers, so the
// machine stays pure enough to unit-test without mocking the network.
type Controller struct {
	script      *Script
	bus         events.Bus
	log         *logger.Logger
	typingDelay time.Duration

	// devMode makes an undefined transition panic instead of only logging.
	// Such a transition is a programmer error: the table in receive covers
	// every reachable step, so this must be structurally unreachable in a
	// correct build.
	devMode bool
}

// NewController creates a dialogue controller. bus may be nil in tests; every
// publish is nil-safe.
func NewController(script *Script, bus events.Bus, log *logger.Logger, typingDelay time.Duration, devMode bool) *Controller {
	return &Controller{
		script:      script,
		bus:         bus,
		log:         log,
		typingDelay: typingDelay,
		devMode:     devMode,
	}
}

// Start issues the deferred first greeting. A no-op when the session already
// has history or was closed before the greeting timer fired.
func (c *Controller) Start(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.messages) > 0 {
		return
	}
	s.appendAgent(c.script.Greeting(), c.script.WelcomeReplies(), c.typingDelay)
	c.log.SessionEvent("greeting", s.ID.String(), s.step.String())
}

// Receive processes one visitor input (free text or quick-reply token) for
// the session's current step. Invalid input never advances the step nor
// writes the record; it is answered with a corrective re-prompt.
func (c *Controller) Receive(s *Session, input string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	s.appendUser(input)

	switch s.step {
	case domain.StepWelcome:
		c.handleWelcome(s, input)
	case domain.StepName:
		c.collectFreeText(s, input, c.script.InvalidName())
	case domain.StepInsuranceType:
		c.collectOption(s, input, c.script.InsuranceOptions())
	case domain.StepGender:
		c.collectOption(s, input, c.script.GenderOptions())
	case domain.StepAge:
		c.collectAge(s, input)
	case domain.StepSmoker:
		c.collectOption(s, input, c.script.SmokerOptions())
	case domain.StepCoverage:
		c.collectOption(s, input, c.script.CoverageOptions())
	case domain.StepLastName:
		c.collectFreeText(s, input, c.script.InvalidName())
	case domain.StepEmail:
		c.collectEmail(s, input)
	case domain.StepPhone:
		c.collectPhone(s, input)
	case domain.StepConfirmation:
		c.handleConfirmation(s, input)
	default:
		c.undefinedTransition(s, input)
	}
}

// Reset discards the record and history and reissues the greeting. Idempotent
// regardless of prior history.
func (c *Controller) Reset(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	c.resetLocked(s)
}

// resetLocked discards state and reissues the greeting. Caller holds the
// session lock.
func (c *Controller) resetLocked(s *Session) {
	atStep := s.step.String()

	s.step = domain.StepWelcome
	s.record = &domain.LeadRecord{}
	s.messages = nil
	s.score = 0
	s.scored = false
	s.shellCommand = ""
	s.typingUntil = time.Time{}

	s.appendAgent(c.script.Greeting(), c.script.WelcomeReplies(), c.typingDelay)

	c.log.SessionEvent("reset", s.ID.String(), atStep)
	c.publish(events.ConversationReset{
		BaseEvent: events.NewBaseEvent(),
		SessionID: s.ID,
		AtStep:    atStep,
	})
}

// =============================================================================
// Step handlers (caller holds the session lock)
// =============================================================================

// affirmative matches the original widget's loose opt-in detection.
func affirmative(input string) bool {
	if input == ReplyGetStarted {
		return true
	}
	lower := strings.ToLower(input)
	return strings.Contains(lower, "start") || strings.Contains(lower, "yes")
}

func (c *Controller) handleWelcome(s *Session, input string) {
	switch {
	case affirmative(input):
		c.advance(s, input, "")
	case input == ReplyLearnMore || input == ReplyTellMeMore:
		s.appendAgent(c.script.Elaboration(), c.script.LearnMoreReplies(), c.typingDelay)
	case input == ReplyNotNow || input == ReplyMaybeLater:
		// Soft terminal: the conversation stays at Welcome and the shell
		// may auto-minimize.
		s.appendAgent(c.script.Goodbye(), nil, c.typingDelay)
		s.shellCommand = ShellMinimize
	default:
		c.reprompt(s, c.script.PickOption(), c.script.WelcomeReplies())
	}
}

func (c *Controller) collectFreeText(s *Session, input, corrective string) {
	result, ok := validate.FreeText(input)
	if !ok {
		c.reprompt(s, corrective, nil)
		return
	}
	c.advance(s, input, result.Value)
}

func (c *Controller) collectOption(s *Session, input string, options []string) {
	result, ok := validate.Option(input, options)
	if !ok {
		c.reprompt(s, c.script.PickOption(), options)
		return
	}
	c.advance(s, input, result.Value)
}

func (c *Controller) collectAge(s *Session, input string) {
	result, ok := validate.Age(input)
	if !ok {
		c.reprompt(s, c.script.InvalidAge(), nil)
		return
	}
	c.advance(s, input, result.Value)
}

func (c *Controller) collectEmail(s *Session, input string) {
	result, ok := validate.Email(input)
	if !ok {
		c.reprompt(s, c.script.InvalidEmail(), nil)
		return
	}
	c.advance(s, input, result.Value)
}

func (c *Controller) collectPhone(s *Session, input string) {
	result, ok := validate.Phone(input)
	if !ok {
		c.reprompt(s, c.script.InvalidPhone(), nil)
		return
	}
	c.advance(s, input, result.Value)
}

func (c *Controller) handleConfirmation(s *Session, input string) {
	switch input {
	case ReplyStartNew:
		c.resetLocked(s)
	case ReplyCloseChat:
		s.shellCommand = ShellClose
	default:
		c.reprompt(s, c.script.PickOption(), c.script.ConfirmationReplies())
	}
}

// =============================================================================
// Transition plumbing
// =============================================================================

// advance writes the validated value (when the step collects a field), moves
// to the successor step, prompts for it, and reports the completed step.
func (c *Controller) advance(s *Session, rawInput, value string) {
	if value != "" {
		s.record.Apply(s.step, value)
	}

	next, ok := s.step.Next()
	if !ok {
		c.undefinedTransition(s, rawInput)
		return
	}
	completed := s.step
	s.step = next

	c.publish(events.StepCompleted{
		BaseEvent:        events.NewBaseEvent(),
		SessionID:        s.ID,
		Step:             completed.String(),
		Answer:           previewAnswer(rawInput),
		UserMessageCount: s.userMessageCount(),
	})

	c.prompt(s)
}

// prompt issues the agent question for the session's current step.
func (c *Controller) prompt(s *Session) {
	switch s.step {
	case domain.StepName:
		s.appendAgent(c.script.AskName(), nil, c.typingDelay)
	case domain.StepInsuranceType:
		s.appendAgent(c.script.AskInsuranceType(s.record.FirstName), c.script.InsuranceOptions(), c.typingDelay)
	case domain.StepGender:
		s.appendAgent(c.script.AskGender(s.record.InsuranceType), c.script.GenderOptions(), c.typingDelay)
	case domain.StepAge:
		s.appendAgent(c.script.AskAge(), nil, c.typingDelay)
	case domain.StepSmoker:
		s.appendAgent(c.script.AskSmoker(), c.script.SmokerOptions(), c.typingDelay)
	case domain.StepCoverage:
		s.appendAgent(c.script.AskCoverage(s.record.Age), c.script.CoverageOptions(), c.typingDelay)
	case domain.StepLastName:
		s.appendAgent(c.script.AskLastName(), nil, c.typingDelay)
	case domain.StepEmail:
		s.appendAgent(c.script.AskEmail(), nil, c.typingDelay)
	case domain.StepPhone:
		s.appendAgent(c.script.AskPhone(), nil, c.typingDelay)
	case domain.StepConfirmation:
		c.finishConversation(s)
	default:
		c.undefinedTransition(s, "")
	}
}

// finishConversation runs the single trigger point for scoring and
// submission. The success message is always shown; backend outcome never
// reaches the visitor. The one-shot guard lives on the record, so re-entry
// from a stray duplicate call publishes nothing twice.
func (c *Controller) finishConversation(s *Session) {
	s.appendAgent(c.script.Summary(*s.record), nil, c.typingDelay)
	s.appendAgent(c.script.Success(*s.record), c.script.ConfirmationReplies(), c.typingDelay)

	if !s.record.MarkSubmitted() {
		return
	}

	s.score = scoring.Score(*s.record)
	s.scored = true

	c.log.SessionEvent("lead_captured", s.ID.String(), s.step.String())
	c.publish(events.LeadCaptured{
		BaseEvent:  events.NewBaseEvent(),
		SessionID:  s.ID,
		Record:     *s.record,
		Score:      s.score,
		Quality:    scoring.QualityBand(s.score),
		Transcript: s.transcript(),
	})
}

// reprompt answers a failed validation without advancing state or writing
// the record.
func (c *Controller) reprompt(s *Session, corrective string, quickReplies []string) {
	s.appendAgent(corrective, quickReplies, c.typingDelay)
	c.publish(events.ValidationFailed{
		BaseEvent: events.NewBaseEvent(),
		SessionID: s.ID,
		Step:      s.step.String(),
	})
}

func (c *Controller) undefinedTransition(s *Session, input string) {
	c.log.Error("undefined dialogue transition",
		"session_id", s.ID.String(),
		"step", s.step.String(),
	)
	if c.devMode {
		panic(fmt.Sprintf("chat: no transition defined for step %q", s.step))
	}
}

func (c *Controller) publish(event events.Event) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(context.Background(), event)
}

func previewAnswer(input string) string {
	if len(input) > maxAnswerPreview {
		return input[:maxAnswerPreview]
	}
	return input
}
