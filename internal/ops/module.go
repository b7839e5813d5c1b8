package ops

import (
	"hashlife_backend/internal/events"
	apphttp "hashlife_backend/internal/http"
)

// Module is the operator monitoring module implementing http.Module.
type Module struct {
	tracker *Tracker
	handler *Handler
}

// NewModule creates the ops module and subscribes its tracker on the bus.
func NewModule(bus events.Bus, counter QualityCounter) *Module {
	tracker := NewTracker()
	tracker.Subscribe(bus)

	return &Module{
		tracker: tracker,
		handler: NewHandler(tracker, counter),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "ops"
}

// Tracker exposes the counters for other consumers (tests, debugging).
func (m *Module) Tracker() *Tracker {
	return m.tracker
}

// RegisterRoutes mounts the monitoring routes on the operator group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
}

var _ apphttp.Module = (*Module)(nil)
