package chat

import (
	"context"
	"sync"
	"time"

	"hashlife_backend/internal/chat/domain"
	"hashlife_backend/internal/events"
	"hashlife_backend/platform/apperr"
	"hashlife_backend/platform/logger"

	"github.com/google/uuid"
)

// sweepInterval is how often idle sessions are reaped.
const sweepInterval = 5 * time.Minute

// Manager owns the session registry: creation on shell mount, lookup per
// turn, and teardown on shell unmount or idle expiry.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	controller    *Controller
	bus           events.Bus
	log           *logger.Logger
	greetingDelay time.Duration
	idleTTL       time.Duration

	stop chan struct{}
	once sync.Once
}

// NewManager creates a session manager and starts its idle sweeper.
func NewManager(controller *Controller, bus events.Bus, log *logger.Logger, greetingDelay, idleTTL time.Duration) *Manager {
	m := &Manager{
		sessions:      make(map[uuid.UUID]*Session),
		controller:    controller,
		bus:           bus,
		log:           log,
		greetingDelay: greetingDelay,
		idleTTL:       idleTTL,
		stop:          make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create registers a fresh session and schedules the deferred first
// greeting. The timer is cancellable: a session dismissed before it fires
// never shows a stale prompt.
func (m *Manager) Create() *Session {
	s := NewSession()

	s.mu.Lock()
	s.greeting = time.AfterFunc(m.greetingDelay, func() {
		m.controller.Start(s)
	})
	s.mu.Unlock()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.SessionEvent("created", s.ID.String(), domain.StepWelcome.String())
	if m.bus != nil {
		m.bus.Publish(context.Background(), events.ConversationStarted{
			BaseEvent: events.NewBaseEvent(),
			SessionID: s.ID,
		})
	}
	return s
}

// Get returns the session or a typed not-found/gone error for the HTTP layer.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperr.Gone("chat session not found or expired")
	}
	return s, nil
}

// Close tears a session down: cancels any pending greeting, reports the
// dismissal, and forgets the session. Closing an unknown session is a no-op.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	s.closed = true
	if s.greeting != nil {
		s.greeting.Stop()
	}
	atStep := s.step.String()
	s.mu.Unlock()

	m.log.SessionEvent("closed", id.String(), atStep)
	if m.bus != nil {
		m.bus.Publish(context.Background(), events.ChatDismissed{
			BaseEvent: events.NewBaseEvent(),
			SessionID: id,
			AtStep:    atStep,
		})
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stop halts the idle sweeper.
func (m *Manager) Stop() {
	m.once.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.idleTTL)

			m.mu.RLock()
			var expired []uuid.UUID
			for id, s := range m.sessions {
				if s.idleSince().Before(cutoff) {
					expired = append(expired, id)
				}
			}
			m.mu.RUnlock()

			for _, id := range expired {
				m.Close(id)
			}
		}
	}
}
