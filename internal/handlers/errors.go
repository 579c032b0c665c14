package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campushub/campushub-api/internal/services"
	apperrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// handleServiceError maps service-layer failures to HTTP responses. Conflicts
// carry their detail through so the client can show which commitment collided.
func handleServiceError(c *gin.Context, err error, defaultMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, apperrors.ErrConflict):
		respondErrorWithDetails(c, http.StatusConflict, "Scheduling conflict", err.Error(), err)
	case errors.Is(err, apperrors.ErrInvalidInput):
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error(), err)
	case errors.Is(err, services.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "Access denied", err)
	case errors.Is(err, services.ErrInvalidStatusTransition):
		respondErrorWithDetails(c, http.StatusConflict, "Invalid status transition", err.Error(), err)
	case errors.Is(err, services.ErrCannotDeclineRequest):
		respondErrorWithDetails(c, http.StatusConflict, "Cannot decline request", err.Error(), err)
	case errors.Is(err, services.ErrInvalidRequestGroup):
		respondError(c, http.StatusBadRequest, "Invalid request group", err)
	default:
		respondError(c, http.StatusInternalServerError, defaultMsg, err)
	}
}

// idParam parses a numeric path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}
