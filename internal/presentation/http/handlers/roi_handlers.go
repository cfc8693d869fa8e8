package handlers

import (
	"net/http"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/domain/profession"
	"github.com/AtRiskMedia/praxis/internal/domain/roi"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ROIHandlers serves the profession catalogue and calculator API
type ROIHandlers struct {
	roiService       *services.ROIService
	profilingService *services.ProfilingService
	logger           *logging.ChanneledLogger
}

// NewROIHandlers creates calculator handlers with injected dependencies
func NewROIHandlers(roiService *services.ROIService, profilingService *services.ProfilingService, logger *logging.ChanneledLogger) *ROIHandlers {
	return &ROIHandlers{roiService: roiService, profilingService: profilingService, logger: logger}
}

type professionView struct {
	Slug       string                  `json:"slug"`
	Multiplier float64                 `json:"multiplier"`
	Title      string                  `json:"title"`
	Tagline    string                  `json:"tagline"`
	Breakdown  []profession.AreaWeight `json:"breakdown"`
}

// GetProfessions handles GET /api/v1/professions
func (h *ROIHandlers) GetProfessions(c *gin.Context) {
	locale := middleware.Locale(c)
	list := h.roiService.Professions()
	out := make([]professionView, 0, len(list))
	for _, p := range list {
		text := p.Localized(locale)
		out = append(out, professionView{
			Slug:       p.Slug,
			Multiplier: p.Multiplier,
			Title:      text.Title,
			Tagline:    text.Tagline,
			Breakdown:  p.Breakdown,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"professions":       out,
		"defaultMultiplier": profession.DefaultMultiplier,
		"locale":            locale,
	})
}

// PostROI handles POST /api/v1/roi. The estimate is also recorded in the
// visitor's profiling snapshot.
func (h *ROIHandlers) PostROI(c *gin.Context) {
	var in roi.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if in.WeeklyAdminHours < 0 || in.WeeklyAdminHours > 168 || in.ClientCount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weeklyHours must be within 0..168 and clients non-negative"})
		return
	}

	acc := h.profilingService.Accumulator(c.Request.Context(), middleware.SessionID(c))
	est := h.roiService.Estimate(c.Request.Context(), in, middleware.Locale(c), acc)
	c.JSON(http.StatusOK, est)
}
