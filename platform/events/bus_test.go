package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	var got []string

	for _, id := range []string{"first", "second"} {
		bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
			mu.Lock()
			got = append(got, id)
			mu.Unlock()
			wg.Done()
			return nil
		}))
	}

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected both handlers to run")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected two handler invocations, got %d", len(got))
	}
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewInMemoryBus(nil)

	bus.Subscribe("other.event", HandlerFunc(func(context.Context, Event) error {
		t.Errorf("handler for other.event must not run")
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})
	time.Sleep(50 * time.Millisecond)
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	failure := errors.New("handler failed")
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return failure
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})
	if !errors.Is(err, failure) {
		t.Fatalf("expected joined error to include handler failure, got %v", err)
	}
}

func TestPanickingHandlerBecomesError(t *testing.T) {
	bus := NewInMemoryBus(nil)

	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		panic("boom")
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "test.event"})
	if err == nil {
		t.Fatalf("expected panic to surface as an error")
	}
}
