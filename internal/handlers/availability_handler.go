package handlers

import (
	"net/http"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AvailabilityHandler handles tutor availability slot endpoints
type AvailabilityHandler struct {
	service services.AvailabilityServiceInterface
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(service services.AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// CreateSlot handles POST /api/v1/tutoring/availability
func (h *AvailabilityHandler) CreateSlot(c *gin.Context) {
	var payload models.CreateAvailabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to create availability slot")
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// UpdateSlot handles PUT /api/v1/tutoring/availability/:id
func (h *AvailabilityHandler) UpdateSlot(c *gin.Context) {
	slotID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload models.UpdateAvailabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	slot, err := h.service.UpdateSlot(c.Request.Context(), slotID, &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to update availability slot")
		return
	}

	c.JSON(http.StatusOK, slot)
}

// GetSlot handles GET /api/v1/tutoring/availability/:id
func (h *AvailabilityHandler) GetSlot(c *gin.Context) {
	slotID, ok := idParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.service.GetSlot(c.Request.Context(), slotID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch availability slot")
		return
	}

	c.JSON(http.StatusOK, slot)
}

// ListSlots handles GET /api/v1/tutors/:tutorId/availability
// Returns the tutor's active weekly slots
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	tutorID, ok := idParam(c, "tutorId")
	if !ok {
		return
	}

	slots, err := h.service.ListSlots(c.Request.Context(), tutorID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slots": slots,
		"total": len(slots),
	})
}
