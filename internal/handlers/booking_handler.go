package handlers

import (
	"net/http"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// BookingHandler handles tutoring booking endpoints
type BookingHandler struct {
	service services.BookingServiceInterface
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(service services.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// CreateBooking handles POST /api/v1/tutoring/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var payload models.CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking handles GET /api/v1/tutoring/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		handleServiceError(c, err, "Failed to fetch booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// RescheduleBooking handles POST /api/v1/tutoring/bookings/:id/reschedule
func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var payload models.RescheduleBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", ParseValidationErrors(err), err)
		return
	}

	booking, err := h.service.RescheduleBooking(c.Request.Context(), bookingID, &payload)
	if err != nil {
		handleServiceError(c, err, "Failed to reschedule booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking handles POST /api/v1/tutoring/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(c.Request.Context(), bookingID)
	if err != nil {
		handleServiceError(c, err, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CompleteSession handles POST /api/v1/tutoring/bookings/:id/complete-session
// Records one delivered session against the booking's paid package
func (h *BookingHandler) CompleteSession(c *gin.Context) {
	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.service.CompleteSession(c.Request.Context(), bookingID)
	if err != nil {
		handleServiceError(c, err, "Failed to record completed session")
		return
	}

	c.JSON(http.StatusOK, booking)
}
