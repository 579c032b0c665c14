package handlers

import (
	"net/http"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MentoringHandler handles the mentoring request lifecycle endpoints
type MentoringHandler struct {
	service services.MentoringServiceInterface
}

// NewMentoringHandler creates a new MentoringHandler
func NewMentoringHandler(service services.MentoringServiceInterface) *MentoringHandler {
	return &MentoringHandler{service: service}
}

// CreateRequest handles POST /api/v1/mentoring/requests
func (h *MentoringHandler) CreateRequest(c *gin.Context) {
	var payload models.CreateMentoringRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	request, err := h.service.CreateRequest(c.Request.Context(), &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to create request")
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetRequests handles GET /api/v1/mentors/:mentorId/requests
// Returns a mentor's requests filtered by group (active/past)
func (h *MentoringHandler) GetRequests(c *gin.Context) {
	mentorID, ok := idParam(c, "mentorId")
	if !ok {
		return
	}

	group := c.Query("group")
	if group == "" {
		respondError(c, http.StatusBadRequest, "Missing required parameter: group", nil)
		return
	}

	response, err := h.service.GetRequests(c.Request.Context(), mentorID, group)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch requests")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetRequestByID handles GET /api/v1/mentors/:mentorId/requests/:id
func (h *MentoringHandler) GetRequestByID(c *gin.Context) {
	mentorID, ok := idParam(c, "mentorId")
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	request, err := h.service.GetRequestByID(c.Request.Context(), mentorID, requestID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch request")
		return
	}

	c.JSON(http.StatusOK, request)
}

// AcceptRequest handles POST /api/v1/mentors/:mentorId/requests/:id/accept
// Accepts a pending request and schedules its session. The body may carry an
// explicit window; an empty body schedules at the preferred time.
func (h *MentoringHandler) AcceptRequest(c *gin.Context) {
	mentorID, ok := idParam(c, "mentorId")
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload models.AcceptRequestPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
			return
		}
	}

	session, err := h.service.AcceptRequest(c.Request.Context(), mentorID, requestID, &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to accept request")
		return
	}

	c.JSON(http.StatusCreated, session)
}

// DeclineRequest handles POST /api/v1/mentors/:mentorId/requests/:id/decline
func (h *MentoringHandler) DeclineRequest(c *gin.Context) {
	mentorID, ok := idParam(c, "mentorId")
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload models.DeclineRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", gin.H{
			"message": "Reason must be one of: no_time, topic_mismatch, on_break, other",
		}, err)
		return
	}

	request, err := h.service.DeclineRequest(c.Request.Context(), mentorID, requestID, &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to decline request")
		return
	}

	c.JSON(http.StatusOK, request)
}

// CompleteRequest handles POST /api/v1/mentors/:mentorId/requests/:id/complete
func (h *MentoringHandler) CompleteRequest(c *gin.Context) {
	mentorID, ok := idParam(c, "mentorId")
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	request, err := h.service.CompleteRequest(c.Request.Context(), mentorID, requestID)
	if err != nil {
		handleServiceError(c, err, "Failed to complete request")
		return
	}

	c.JSON(http.StatusOK, request)
}
