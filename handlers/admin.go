package handlers

import (
	"net/http"

	"staybook/config"
	"staybook/services/reservation"
	"staybook/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes operational endpoints.
type AdminHandler struct {
	Reservations reservation.ReservationService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc reservation.ReservationService) *AdminHandler {
	return &AdminHandler{Reservations: svc}
}

// SweepExpired handles POST /api/admin/sweep: the same sweep the cron runs,
// invocable on demand.
func (h *AdminHandler) SweepExpired(c *gin.Context) {
	deleted, err := h.Reservations.SweepExpiredPending(c.Request.Context(), config.PendingTTL())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "sweep failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
