package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voicehealth/backend/internal/apierror"
	"github.com/voicehealth/backend/internal/logger"
	"github.com/voicehealth/backend/internal/service"
)

// StatsHandler handles pattern analysis HTTP requests
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats returns the user's analysis report, or the insufficient-data
// variant when the history is too small. Both are 200 responses; clients
// tell them apart by the presence of the analyzer keys.
// GET /api/v1/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return
	}

	log := logger.Ctx(c.Request.Context())

	report, insufficient, err := h.statsService.GetUserStats(c.Request.Context(), userID.(string))
	if err != nil {
		log.Error("failed to get stats", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	if insufficient != nil {
		c.JSON(http.StatusOK, insufficient)
		return
	}
	c.JSON(http.StatusOK, report)
}

// RefreshStats recomputes the analysis report unconditionally
// POST /api/v1/stats/refresh
func (h *StatsHandler) RefreshStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return
	}

	log := logger.Ctx(c.Request.Context())

	report, insufficient, err := h.statsService.RefreshStats(c.Request.Context(), userID.(string))
	if err != nil {
		log.Error("failed to refresh stats", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	if insufficient != nil {
		c.JSON(http.StatusOK, insufficient)
		return
	}
	c.JSON(http.StatusOK, report)
}
