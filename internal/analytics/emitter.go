package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// dispatchTimeout bounds one fan-out to all collectors.
const dispatchTimeout = 5 * time.Second

// Emitter subscribes to conversation events and fans each one out to every
// registered collector concurrently. With zero collectors it degrades to a
// no-op. Collector errors and panics are contained and logged per collector.
type Emitter struct {
	collectors []Collector
	log        *logger.Logger

	wg sync.WaitGroup
}

func NewEmitter(log *logger.Logger, collectors ...Collector) *Emitter {
	return &Emitter{
		collectors: collectors,
		log:        log,
	}
}

// Subscribe registers the emitter for every event it translates.
func (e *Emitter) Subscribe(bus events.Bus) {
	handler := events.HandlerFunc(e.handle)
	bus.Subscribe(events.ConversationStarted{}.EventName(), handler)
	bus.Subscribe(events.StepCompleted{}.EventName(), handler)
	bus.Subscribe(events.ValidationFailed{}.EventName(), handler)
	bus.Subscribe(events.LeadCaptured{}.EventName(), handler)
	bus.Subscribe(events.ChatDismissed{}.EventName(), handler)
	bus.Subscribe(events.ConversationReset{}.EventName(), handler)
	bus.Subscribe(events.SubmissionFailed{}.EventName(), handler)
}

// Wait blocks until in-flight dispatches have drained.
func (e *Emitter) Wait() {
	e.wg.Wait()
}

func (e *Emitter) handle(_ context.Context, event events.Event) error {
	tracked, ok := translate(event)
	if !ok {
		return nil
	}
	e.Emit(tracked)
	return nil
}

// Emit dispatches one tracked event to all collectors without blocking the
// caller. Failures never propagate.
func (e *Emitter) Emit(tracked TrackedEvent) {
	if len(e.collectors) == 0 {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)
		for _, collector := range e.collectors {
			g.Go(func() error {
				err := e.dispatch(ctx, collector, tracked)
				e.log.AnalyticsDispatch(collector.Name(), tracked.Name, err)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (e *Emitter) dispatch(ctx context.Context, collector Collector, tracked TrackedEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collector panicked: %v", r)
		}
	}()
	return collector.Collect(ctx, tracked)
}

// translate maps a domain event onto its collector projection. Unknown events
// are skipped.
func translate(event events.Event) (TrackedEvent, bool) {
	switch ev := event.(type) {
	case events.ConversationStarted:
		return TrackedEvent{
			Name:      EventChatStarted,
			SessionID: ev.SessionID.String(),
		}, true
	case events.StepCompleted:
		return TrackedEvent{
			Name:      EventStepCompleted,
			SessionID: ev.SessionID.String(),
			Params: map[string]any{
				"step":          ev.Step,
				"message_count": ev.UserMessageCount,
			},
		}, true
	case events.ValidationFailed:
		return TrackedEvent{
			Name:      EventValidationFailed,
			SessionID: ev.SessionID.String(),
			Params:    map[string]any{"step": ev.Step},
		}, true
	case events.LeadCaptured:
		return TrackedEvent{
			Name:      EventLeadCaptured,
			SessionID: ev.SessionID.String(),
			Params: map[string]any{
				"score":   ev.Score,
				"quality": ev.Quality,
			},
		}, true
	case events.ChatDismissed:
		return TrackedEvent{
			Name:      EventChatDismissed,
			SessionID: ev.SessionID.String(),
			Params:    map[string]any{"step": ev.AtStep},
		}, true
	case events.ConversationReset:
		return TrackedEvent{
			Name:      EventChatReset,
			SessionID: ev.SessionID.String(),
			Params:    map[string]any{"step": ev.AtStep},
		}, true
	case events.SubmissionFailed:
		return TrackedEvent{
			Name:      EventSubmissionFailed,
			SessionID: ev.SessionID.String(),
		}, true
	default:
		return TrackedEvent{}, false
	}
}
