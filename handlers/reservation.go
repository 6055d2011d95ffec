package handlers

import (
	"errors"
	"net/http"
	"time"

	"staybook/middleware"
	"staybook/services/reservation"
	"staybook/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler exposes the booking engine over HTTP.
type ReservationHandler struct {
	Service reservation.ReservationService
}

// NewReservationHandler creates a ReservationHandler.
func NewReservationHandler(svc reservation.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// respondServiceError maps the engine's typed errors to HTTP statuses.
// Conflicts carry the listing and interval so clients can tell the user
// which dates are no longer available.
func respondServiceError(c *gin.Context, err error) {
	var vErr *reservation.ValidationError
	var aErr *reservation.AuthorizationError
	var nErr *reservation.NotFoundError
	var cErr *reservation.ConflictError

	switch {
	case errors.As(err, &vErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", vErr.Message)
	case errors.As(err, &aErr):
		utils.JSONError(c, http.StatusForbidden, "Not allowed", aErr.Message)
	case errors.As(err, &nErr):
		utils.JSONError(c, http.StatusNotFound, "Not found", nErr.Message)
	case errors.As(err, &cErr):
		resp := gin.H{"message": cErr.Message}
		if cErr.ListingID != "" {
			resp["listing_id"] = cErr.ListingID
			resp["start_date"] = cErr.StartDate.Format(dateLayout)
			resp["end_date"] = cErr.EndDate.Format(dateLayout)
		}
		c.JSON(http.StatusConflict, resp)
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// CreateReservation handles POST /api/reservations.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var input struct {
		ListingID      string `json:"listing_id" binding:"required"`
		StartDate      string `json:"start_date" binding:"required"`
		EndDate        string `json:"end_date" binding:"required"`
		PaymentOrderID string `json:"payment_order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "end_date must be YYYY-MM-DD")
		return
	}

	res, err := h.Service.CreateReservation(c.Request.Context(), middleware.CallerID(c), input.ListingID, start, end, input.PaymentOrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": res})
}

// ConfirmReservation handles PUT /api/reservations/:id/confirm.
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	var input struct {
		PaymentID string `json:"payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, err := h.Service.ConfirmReservation(c.Request.Context(), c.Param("id"), middleware.CallerID(c), input.PaymentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

// ConfirmPaymentOrderGroup handles POST /api/reservations/confirm-order.
// Partial success is a 200 with both the confirmed members and the failures.
func (h *ReservationHandler) ConfirmPaymentOrderGroup(c *gin.Context) {
	var input struct {
		PaymentOrderID string `json:"payment_order_id" binding:"required"`
		PaymentID      string `json:"payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.ConfirmPaymentOrderGroup(c.Request.Context(), input.PaymentOrderID, middleware.CallerID(c), input.PaymentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"confirmed": result.Confirmed,
		"failed":    result.Failed,
	})
}

// CancelReservation handles DELETE /api/reservations/:id.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	result, err := h.Service.CancelReservation(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservation":      result.Reservation,
		"refund_initiated": result.RefundInitiated,
		"refund_id":        result.RefundID,
	})
}

// ApproveReservation handles PUT /api/reservations/:id/approve.
func (h *ReservationHandler) ApproveReservation(c *gin.Context) {
	res, err := h.Service.ApproveReservation(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

// RejectReservation handles PUT /api/reservations/:id/reject.
func (h *ReservationHandler) RejectReservation(c *gin.Context) {
	res, err := h.Service.RejectReservation(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

// CleanupFailedPaymentGroup handles DELETE /api/reservations/order/:orderID.
func (h *ReservationHandler) CleanupFailedPaymentGroup(c *gin.Context) {
	deleted, err := h.Service.CleanupFailedPaymentGroup(c.Request.Context(), c.Param("orderID"), middleware.CallerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// GetReservation handles GET /api/reservations/:id.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	res, err := h.Service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if res.GuestID != middleware.CallerID(c) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed", "reservations are only visible to the reserving guest")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

// ListMyReservations handles GET /api/reservations.
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	results, err := h.Service.ListGuestReservations(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": results})
}

// ListListingReservations handles GET /api/listings/:id/reservations.
func (h *ReservationHandler) ListListingReservations(c *gin.Context) {
	results, err := h.Service.ListListingReservations(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": results})
}
