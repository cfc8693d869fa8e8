package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/domain/profiling"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProfileHandlers exposes the visitor's profiling snapshot
type ProfileHandlers struct {
	profilingService *services.ProfilingService
	logger           *logging.ChanneledLogger
}

// NewProfileHandlers creates profiling handlers with injected dependencies
func NewProfileHandlers(profilingService *services.ProfilingService, logger *logging.ChanneledLogger) *ProfileHandlers {
	return &ProfileHandlers{profilingService: profilingService, logger: logger}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandlers) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.profilingService.Snapshot(c.Request.Context(), middleware.SessionID(c)))
}

// PostEvents handles POST /api/v1/profile/events with one event or an array.
func (h *ProfileHandlers) PostEvents(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxEventBody))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		return
	}

	snap, err := h.profilingService.ApplyPayload(c.Request.Context(), middleware.SessionID(c), body)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayload) || errors.Is(err, profiling.ErrInvalidEvent) || errors.Is(err, profiling.ErrUnknownEvent) {
			h.logger.Profiling().Debug("Rejected profiling payload", "error", err.Error())
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record events"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
