package email

import (
	"context"
	"time"

	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"
)

const sendTimeout = 30 * time.Second

// Notifier consumes lead-captured events and mails the operator. A nil
// sender or empty operator address degrades it to a no-op.
type Notifier struct {
	sender        Sender
	operatorEmail string
	log           *logger.Logger
}

func NewNotifier(sender Sender, operatorEmail string, log *logger.Logger) *Notifier {
	return &Notifier{
		sender:        sender,
		operatorEmail: operatorEmail,
		log:           log,
	}
}

// Subscribe registers the notifier on the event bus.
func (n *Notifier) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(n.handleLeadCaptured))
}

func (n *Notifier) handleLeadCaptured(_ context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return nil
	}
	if n.sender == nil || n.operatorEmail == "" {
		return nil
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		err := n.sender.SendLeadNotification(ctx, n.operatorEmail, captured.Record, captured.Score, captured.Quality)
		if err != nil {
			n.log.Warn("operator notification failed",
				"sessionId", captured.SessionID.String(),
				"error", err.Error())
			return
		}
		n.log.Info("operator notified", "sessionId", captured.SessionID.String())
	}()
	return nil
}
