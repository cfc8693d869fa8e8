package handlers

import (
	"errors"
	"net/http"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ContactHandlers accepts contact submissions over the JSON API
type ContactHandlers struct {
	leadService *services.LeadService
	logger      *logging.ChanneledLogger
}

// NewContactHandlers creates contact handlers with injected dependencies
func NewContactHandlers(leadService *services.LeadService, logger *logging.ChanneledLogger) *ContactHandlers {
	return &ContactHandlers{leadService: leadService, logger: logger}
}

// PostContact handles POST /api/v1/contact
func (h *ContactHandlers) PostContact(c *gin.Context) {
	var form lead.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sub, err := h.leadService.Submit(c.Request.Context(), middleware.SessionID(c), form)
	if err != nil {
		status, body := contactError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": sub.ID, "status": sub.Status})
}

// contactError maps submission failures. Storage details never reach the visitor.
func contactError(err error) (int, gin.H) {
	var verr *lead.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.FieldErrors}
	case errors.Is(err, lead.ErrSubmissionInFlight):
		return http.StatusConflict, gin.H{"error": "a submission is already in progress"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"}
	}
}
