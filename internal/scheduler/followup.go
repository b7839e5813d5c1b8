package scheduler

import (
	"context"
	"time"

	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"
)

// Subscriber schedules a follow-up email for every captured lead. With no
// scheduler client configured it is a no-op.
type Subscriber struct {
	client FollowUpScheduler
	delay  time.Duration
	log    *logger.Logger
}

func NewSubscriber(client FollowUpScheduler, delay time.Duration, log *logger.Logger) *Subscriber {
	return &Subscriber{
		client: client,
		delay:  delay,
		log:    log,
	}
}

// Subscribe registers the subscriber on the event bus.
func (s *Subscriber) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(s.handleLeadCaptured))
}

func (s *Subscriber) handleLeadCaptured(ctx context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return nil
	}
	if s.client == nil || captured.Record.Email == "" {
		return nil
	}

	payload := LeadFollowUpPayload{
		SessionID:     captured.SessionID.String(),
		Email:         captured.Record.Email,
		FirstName:     captured.Record.FirstName,
		InsuranceType: captured.Record.InsuranceType,
	}

	runAt := time.Now().Add(s.delay)
	if err := s.client.ScheduleLeadFollowUp(ctx, payload, runAt); err != nil {
		s.log.Warn("follow-up scheduling failed",
			"sessionId", captured.SessionID.String(),
			"error", err.Error())
		return nil
	}

	s.log.Info("follow-up scheduled",
		"sessionId", captured.SessionID.String(),
		"runAt", runAt.Format(time.RFC3339))
	return nil
}
