package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AtRiskMedia/praxis/internal/application/container"
	"github.com/gin-gonic/gin"
)

// HealthHandlers reports liveness for load balancers
type HealthHandlers struct {
	app *container.Container
}

// NewHealthHandlers creates health handlers over the container
func NewHealthHandlers(app *container.Container) *HealthHandlers {
	return &HealthHandlers{app: app}
}

// GetHealth handles GET /healthz. Only the database decides the status code;
// the operation summary is informational.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	snap := h.app.PerfTracker.TakeSnapshot()
	body := gin.H{
		"status":       "ok",
		"operations":   snap.OverallHealth,
		"sessions":     h.app.Sessions.Len(),
		"feedClients":  h.app.Broadcaster.ClientCount(),
		"completedOps": snap.CompletedOperations,
	}

	status := http.StatusOK
	if h.app.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		dbHealth := h.app.DB.Health(ctx)
		body["database"] = dbHealth
		if healthy, _ := dbHealth["healthy"].(bool); !healthy {
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, body)
}
