package handlers

import (
	"net/http"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler exposes the advisory conflict preview. Frontends call it
// to grey out taken slots before submitting; the answer is not a
// reservation.
type ScheduleHandler struct {
	service services.ScheduleServiceInterface
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(service services.ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// CheckConflicts handles POST /api/v1/schedule/check
func (h *ScheduleHandler) CheckConflicts(c *gin.Context) {
	var payload models.CheckConflictPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	result, err := h.service.CheckConflicts(c.Request.Context(), &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to check schedule")
		return
	}

	c.JSON(http.StatusOK, result)
}
