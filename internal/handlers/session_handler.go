package handlers

import (
	"context"
	"net/http"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SessionHandler handles mentoring session endpoints
type SessionHandler struct {
	service services.SessionServiceInterface
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(service services.SessionServiceInterface) *SessionHandler {
	return &SessionHandler{service: service}
}

// CreateSession handles POST /api/v1/mentoring/sessions
// Schedules a session directly, outside the request flow
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var payload models.CreateSessionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to create session")
		return
	}

	c.JSON(http.StatusCreated, session)
}

// GetSession handles GET /api/v1/mentoring/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// RescheduleSession handles POST /api/v1/mentoring/sessions/:id/reschedule
func (h *SessionHandler) RescheduleSession(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload models.RescheduleSessionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	session, err := h.service.RescheduleSession(c.Request.Context(), sessionID, &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to reschedule session")
		return
	}

	c.JSON(http.StatusOK, session)
}

// ConfirmSession handles POST /api/v1/mentoring/sessions/:id/confirm
func (h *SessionHandler) ConfirmSession(c *gin.Context) {
	h.transition(c, h.service.ConfirmSession, "Failed to confirm session")
}

// CompleteSession handles POST /api/v1/mentoring/sessions/:id/complete
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	h.transition(c, h.service.CompleteSession, "Failed to complete session")
}

// CancelSession handles POST /api/v1/mentoring/sessions/:id/cancel
func (h *SessionHandler) CancelSession(c *gin.Context) {
	h.transition(c, h.service.CancelSession, "Failed to cancel session")
}

func (h *SessionHandler) transition(c *gin.Context, op func(ctx context.Context, id int64) (*models.MentoringSession, error), defaultMsg string) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := op(c.Request.Context(), sessionID)
	if err != nil {
		handleServiceError(c, err, defaultMsg)
		return
	}

	c.JSON(http.StatusOK, session)
}
