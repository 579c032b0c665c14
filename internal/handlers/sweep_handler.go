package handlers

import (
	"net/http"
	"time"

	"github.com/campushub/campushub-api/internal/services"
	"github.com/gin-gonic/gin"
)

// SweepHandler exposes the expiry sweep for external schedulers. The
// in-process sweeper normally covers this; the endpoint exists so a cron or
// an operator can force a run.
type SweepHandler struct {
	service services.ExpiryServiceInterface
}

// NewSweepHandler creates a new SweepHandler
func NewSweepHandler(service services.ExpiryServiceInterface) *SweepHandler {
	return &SweepHandler{service: service}
}

// Sweep handles POST /api/v1/internal/expiry/sweep
func (h *SweepHandler) Sweep(c *gin.Context) {
	expired, err := h.service.Sweep(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Sweep failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": expired})
}
