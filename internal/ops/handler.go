package ops

import (
	"context"
	"time"

	"hashlife_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// QualityCounter reads durable per-quality lead counts. Implemented by the
// submission repository; nil when no database is configured.
type QualityCounter interface {
	CountByQuality(ctx context.Context) (map[string]int, error)
}

// Handler serves the operator monitoring endpoints under /admin/intake.
type Handler struct {
	tracker *Tracker
	counter QualityCounter
}

func NewHandler(tracker *Tracker, counter QualityCounter) *Handler {
	return &Handler{
		tracker: tracker,
		counter: counter,
	}
}

// RegisterRoutes mounts the monitoring routes on the operator group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	intake := rg.Group("/intake")
	intake.GET("/funnel", h.GetFunnel)
	intake.GET("/failures", h.GetFailures)
	intake.GET("/stats", h.GetStats)
}

// GetFunnel returns the in-memory funnel counters plus the step order.
func (h *Handler) GetFunnel(c *gin.Context) {
	httpkit.OK(c, gin.H{
		"steps":  Steps(),
		"funnel": h.tracker.Funnel(),
	})
}

// GetFailures returns the retained submission failure log.
func (h *Handler) GetFailures(c *gin.Context) {
	httpkit.OK(c, gin.H{
		"failures": h.tracker.Failures(),
	})
}

// GetStats returns process counters, and durable per-quality totals when a
// database is available.
func (h *Handler) GetStats(c *gin.Context) {
	resp := gin.H{
		"process": h.tracker.Stats(),
	}

	if h.counter != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if counts, err := h.counter.CountByQuality(ctx); err == nil {
			resp["stored"] = gin.H{"qualityCounts": counts}
		}
	}

	httpkit.OK(c, resp)
}
