package submission

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hashlife_backend/internal/events"
	"hashlife_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu       sync.Mutex
	requests []QuoteRequest
	err      error
}

func (s *fakeStore) CreateQuoteRequest(_ context.Context, req QuoteRequest) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return uuid.Nil, s.err
	}
	s.requests = append(s.requests, req)
	return uuid.New(), nil
}

type recordBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordBus) Subscribe(string, events.Handler) {}

func (b *recordBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, ev := range b.events {
		out[i] = ev.EventName()
	}
	return out
}

func capturedEvent() events.LeadCaptured {
	return events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		SessionID: uuid.New(),
		Record:    completedRecord(),
		Score:     100,
		Quality:   "High",
	}
}

func TestGatewayStoresLead(t *testing.T) {
	store := &fakeStore{}
	bus := &recordBus{}
	g := NewGateway(store, nil, bus, logger.New("test"))

	if err := g.handleLeadCaptured(context.Background(), capturedEvent()); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	g.Wait()

	if len(store.requests) != 1 {
		t.Fatalf("expected one stored request, got %d", len(store.requests))
	}
	if store.requests[0].Source != "chatbot" {
		t.Fatalf("expected chatbot source, got %q", store.requests[0].Source)
	}

	names := bus.names()
	if len(names) != 1 || names[0] != (events.SubmissionSucceeded{}).EventName() {
		t.Fatalf("expected a single submission-succeeded event, got %v", names)
	}
}

func TestGatewayFailureIsIsolated(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	bus := &recordBus{}
	g := NewGateway(store, nil, bus, logger.New("test"))

	// The handler itself never errors: the visitor-facing path must not see
	// persistence trouble.
	if err := g.handleLeadCaptured(context.Background(), capturedEvent()); err != nil {
		t.Fatalf("expected handler to swallow store failure, got %v", err)
	}
	g.Wait()

	names := bus.names()
	if len(names) != 1 || names[0] != (events.SubmissionFailed{}).EventName() {
		t.Fatalf("expected a single submission-failed event, got %v", names)
	}
}

func TestGatewayWithoutStoreReportsFailure(t *testing.T) {
	bus := &recordBus{}
	g := NewGateway(nil, nil, bus, logger.New("test"))

	if err := g.handleLeadCaptured(context.Background(), capturedEvent()); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	g.Wait()

	names := bus.names()
	if len(names) != 1 || names[0] != (events.SubmissionFailed{}).EventName() {
		t.Fatalf("expected submission-failed without a store, got %v", names)
	}
}

func TestGatewayIgnoresForeignEvents(t *testing.T) {
	store := &fakeStore{}
	g := NewGateway(store, nil, &recordBus{}, logger.New("test"))

	err := g.handleLeadCaptured(context.Background(), events.ConversationStarted{
		BaseEvent: events.NewBaseEvent(),
		SessionID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	g.Wait()

	if len(store.requests) != 0 {
		t.Fatalf("expected no stored requests, got %d", len(store.requests))
	}
}
