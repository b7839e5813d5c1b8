package analytics

import (
	"context"

	"hashlife_backend/platform/logger"
)

// DebugCollector writes tracked events to the structured log. Enabled in
// development or via ANALYTICS_DEBUG_LOG when no real collector is wired.
type DebugCollector struct {
	log *logger.Logger
}

func NewDebugCollector(log *logger.Logger) *DebugCollector {
	return &DebugCollector{log: log}
}

func (c *DebugCollector) Name() string {
	return "debug"
}

func (c *DebugCollector) Collect(_ context.Context, ev TrackedEvent) error {
	args := []any{"event", ev.Name, "sessionId", ev.SessionID}
	for key, value := range ev.Params {
		args = append(args, key, value)
	}
	c.log.Debug("analytics event", args...)
	return nil
}
