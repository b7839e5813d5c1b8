package submission

import (
	"context"
	"sync"
	"time"

	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"

	"github.com/google/uuid"
)

// storeTimeout bounds a single persistence attempt. There is no retry: a
// failed handoff is logged and surfaced on the operator channel, never to
// the visitor, who has already been shown the success message.
const storeTimeout = 10 * time.Second

// Store persists quote requests. Implemented by repository.Repository.
type Store interface {
	CreateQuoteRequest(ctx context.Context, req QuoteRequest) (uuid.UUID, error)
}

// Gateway consumes lead-captured events and hands each completed record to
// persistence exactly once, asynchronously. A nil store degrades the gateway
// to log-only; the conversation layer never learns the difference.
type Gateway struct {
	store    Store
	archiver *TranscriptArchiver
	bus      events.Bus
	log      *logger.Logger

	wg sync.WaitGroup
}

func NewGateway(store Store, archiver *TranscriptArchiver, bus events.Bus, log *logger.Logger) *Gateway {
	return &Gateway{
		store:    store,
		archiver: archiver,
		bus:      bus,
		log:      log,
	}
}

// Subscribe registers the gateway on the event bus.
func (g *Gateway) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(g.handleLeadCaptured))
}

// Wait blocks until all in-flight submissions have finished. Used on
// shutdown so captured leads are not lost to a fast exit.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

func (g *Gateway) handleLeadCaptured(ctx context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return nil
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.submit(captured)
	}()
	return nil
}

func (g *Gateway) submit(captured events.LeadCaptured) {
	// Detached from the request context on purpose: the HTTP response that
	// triggered the capture has long been written.
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	req := BuildQuoteRequest(captured.Record, captured.Score, captured.Quality, time.Now())

	if g.store == nil {
		g.log.Warn("no lead store configured, dropping quote request",
			"sessionId", captured.SessionID.String(),
			"quality", captured.Quality)
		g.publishFailed(ctx, captured.SessionID, "store not configured")
		return
	}

	leadID, err := g.store.CreateQuoteRequest(ctx, req)
	if err != nil {
		g.log.SubmissionError(captured.SessionID.String(), err)
		g.publishFailed(ctx, captured.SessionID, err.Error())
		return
	}

	g.log.Info("quote request stored",
		"leadId", leadID.String(),
		"sessionId", captured.SessionID.String(),
		"score", captured.Score,
		"quality", captured.Quality)

	if g.bus != nil {
		g.bus.Publish(ctx, events.SubmissionSucceeded{
			BaseEvent: events.NewBaseEvent(),
			SessionID: captured.SessionID,
			LeadID:    leadID,
		})
	}

	if err := g.archiver.Archive(ctx, captured.SessionID, captured.Score, captured.Quality, captured.Transcript); err != nil {
		g.log.Warn("transcript archive failed",
			"sessionId", captured.SessionID.String(),
			"error", err.Error())
	}
}

func (g *Gateway) publishFailed(ctx context.Context, sessionID uuid.UUID, reason string) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(ctx, events.SubmissionFailed{
		BaseEvent: events.NewBaseEvent(),
		SessionID: sessionID,
		Reason:    reason,
	})
}
