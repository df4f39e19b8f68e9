package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voicehealth/backend/internal/apierror"
	"github.com/voicehealth/backend/internal/logger"
	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/internal/service"
)

// EntryHandler handles log entry HTTP requests
type EntryHandler struct {
	entryService service.EntryService
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entryService service.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// CreateEntry stores a new log entry for the authenticated user
// POST /api/v1/entries
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return
	}

	log := logger.Ctx(c.Request.Context())

	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	// Collect all validation failures so the client sees them at once.
	var fieldErrors []apierror.FieldError
	if req.Severity != nil && (*req.Severity < 1 || *req.Severity > 10) {
		fieldErrors = append(fieldErrors, apierror.FieldError{
			Field:   "severity",
			Message: "must be between 1 and 10",
			Code:    "out_of_range",
		})
	}
	if len(fieldErrors) > 0 {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), userID.(string), &req)
	if err != nil {
		requestID := apierror.GetRequestID(c)
		if errors.Is(err, service.ErrSeverityOutOfRange) {
			apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
				{Field: "severity", Message: "must be between 1 and 10", Code: "out_of_range"},
			}))
			return
		}
		log.Error("failed to create entry", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetEntries returns a page of the user's history, most recent first
// GET /api/v1/entries?limit=20&offset=0
func (h *EntryHandler) GetEntries(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return
	}

	log := logger.Ctx(c.Request.Context())

	limit, ok := queryInt(c, "limit", service.DefaultEntryLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	entries, err := h.entryService.GetUserEntries(c.Request.Context(), userID.(string), limit, offset)
	if err != nil {
		log.Error("failed to get entries", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		return
	}

	c.JSON(http.StatusOK, models.EntryPage{
		Entries: entries,
		Limit:   limit,
		Offset:  offset,
	})
}

// queryInt parses an optional integer query parameter, writing a validation
// problem and returning ok=false when it is malformed.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: name, Message: "must be an integer", Code: "invalid_integer"},
		}))
		return 0, false
	}
	return value, true
}
