package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationRepo "staybook/database/repository/reservation"
	"staybook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CreateReservation validates the request, guards against confirmed overlaps
// and persists a new pending reservation priced at nightly rate x nights.
func (svc *DefaultReservationService) CreateReservation(ctx context.Context, guestID, listingID string, start, end time.Time, paymentOrderID string) (*models.Reservation, error) {
	if guestID == "" || listingID == "" {
		return nil, NewValidationError("guest and listing are required")
	}
	if paymentOrderID == "" {
		return nil, NewValidationError("payment order reference is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, NewValidationError("start and end dates are required")
	}
	if !start.Before(end) {
		return nil, NewValidationError("start date %s must be before end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	guest, err := svc.UserRepo.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("guest %s not found", guestID)
		}
		return nil, fmt.Errorf("failed to load guest %s: %w", guestID, err)
	}
	if guest.Role != models.RoleGuest {
		return nil, NewAuthorizationError("only guests may create reservations")
	}

	listing, err := svc.ListingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("listing %s not found", listingID)
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", listingID, err)
	}
	if !listing.Active {
		return nil, NewValidationError("listing %s is not open for booking", listingID)
	}
	if listing.HostID == guestID {
		return nil, NewAuthorizationError("hosts cannot reserve their own listing")
	}

	// Hold the listing lock across the guard and the insert so a concurrent
	// confirmation cannot slip a conflicting interval in between.
	lock := svc.locks.acquire(listingID)
	defer lock.Unlock()

	conflict, err := svc.HasConflict(ctx, listingID, start, end, BlockingStatuses)
	if err != nil {
		return nil, fmt.Errorf("overlap check failed: %w", err)
	}
	if conflict {
		return nil, NewOverlapConflict(listingID, start, end)
	}

	now := svc.now()
	res := &models.Reservation{
		ID:             uuid.New().String(),
		GuestID:        guestID,
		ListingID:      listingID,
		StartDate:      start,
		EndDate:        end,
		Status:         models.ReservationPending,
		PaymentOrderID: paymentOrderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	res.PriceCents = listing.NightlyRateCents * int64(res.Nights())

	if err := svc.Repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	svc.logger().Info("reservation created",
		zap.String("reservationId", res.ID),
		zap.String("listingId", listingID),
		zap.String("guestId", guestID),
		zap.Int64("priceCents", res.PriceCents))
	return res, nil
}

// ConfirmReservation applies the pending -> confirmed transition after
// payment capture, re-running the overlap guard under the listing lock.
// Confirming an already-confirmed reservation with the same payment reference
// is an idempotent success.
func (svc *DefaultReservationService) ConfirmReservation(ctx context.Context, reservationID, guestID, paymentID string) (*models.Reservation, error) {
	if paymentID == "" {
		return nil, NewValidationError("payment reference is required")
	}

	res, err := svc.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.GuestID != guestID {
		return nil, NewAuthorizationError("only the reserving guest may confirm reservation %s", reservationID)
	}

	return svc.confirmMember(ctx, res, paymentID)
}

// confirmMember runs the confirmed-state guard and conditional write for one
// reservation. Shared by single confirmation and the group coordinator.
func (svc *DefaultReservationService) confirmMember(ctx context.Context, res *models.Reservation, paymentID string) (*models.Reservation, error) {
	switch res.Status {
	case models.ReservationCancelled:
		return nil, NewStateConflict("reservation %s is cancelled", res.ID)
	case models.ReservationConfirmed:
		if res.PaymentID == paymentID {
			return res, nil
		}
		return nil, NewStateConflict("reservation %s is already confirmed under a different payment", res.ID)
	}

	lock := svc.locks.acquire(res.ListingID)
	defer lock.Unlock()

	// Authoritative overlap guard: time has passed since creation and other
	// reservations may have been confirmed meanwhile.
	conflict, err := svc.hasConflictExcluding(ctx, res.ListingID, res.ID, res.StartDate, res.EndDate)
	if err != nil {
		return nil, fmt.Errorf("overlap check failed: %w", err)
	}
	if conflict {
		return nil, NewOverlapConflict(res.ListingID, res.StartDate, res.EndDate)
	}

	now := svc.now()
	if err := svc.Repo.ConfirmIfPending(ctx, res.ID, paymentID, now); err != nil {
		if errors.Is(err, reservationRepo.ErrStaleStatus) {
			// Lost the write; re-read so a retried identical confirmation
			// still resolves to an idempotent success.
			current, loadErr := svc.loadReservation(ctx, res.ID)
			if loadErr != nil {
				return nil, loadErr
			}
			if current.Status == models.ReservationConfirmed && current.PaymentID == paymentID {
				return current, nil
			}
			return nil, NewStateConflict("reservation %s changed state during confirmation", res.ID)
		}
		return nil, fmt.Errorf("failed to confirm reservation %s: %w", res.ID, err)
	}

	res.Status = models.ReservationConfirmed
	if paymentID != "" {
		res.PaymentID = paymentID
	}
	res.UpdatedAt = now

	svc.logger().Info("reservation confirmed",
		zap.String("reservationId", res.ID),
		zap.String("listingId", res.ListingID),
		zap.String("paymentId", paymentID))
	svc.notifyTransition(ctx, res, "Reservation confirmed", "Your stay is booked.")
	return res, nil
}

// ApproveReservation lets the listing host confirm a pending reservation
// without a payment reference (manual-approval path).
func (svc *DefaultReservationService) ApproveReservation(ctx context.Context, reservationID, hostID string) (*models.Reservation, error) {
	res, err := svc.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireHost(ctx, res, hostID, "approve"); err != nil {
		return nil, err
	}
	if res.Status != models.ReservationPending {
		return nil, NewStateConflict("reservation %s is %s, only pending reservations can be approved", res.ID, res.Status)
	}
	return svc.confirmMember(ctx, res, "")
}

// RejectReservation lets the listing host cancel a pending reservation.
func (svc *DefaultReservationService) RejectReservation(ctx context.Context, reservationID, hostID string) (*models.Reservation, error) {
	res, err := svc.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireHost(ctx, res, hostID, "reject"); err != nil {
		return nil, err
	}
	if res.Status != models.ReservationPending {
		return nil, NewStateConflict("reservation %s is %s, only pending reservations can be rejected", res.ID, res.Status)
	}

	now := svc.now()
	if err := svc.Repo.CancelIfStatus(ctx, res.ID, models.ReservationPending, now); err != nil {
		if errors.Is(err, reservationRepo.ErrStaleStatus) {
			return nil, NewStateConflict("reservation %s changed state during rejection", res.ID)
		}
		return nil, fmt.Errorf("failed to reject reservation %s: %w", res.ID, err)
	}

	res.Status = models.ReservationCancelled
	res.UpdatedAt = now

	svc.logger().Info("reservation rejected",
		zap.String("reservationId", res.ID),
		zap.String("hostId", hostID))
	svc.notifyTransition(ctx, res, "Reservation declined", "The host declined your request.")
	return res, nil
}

// CancelReservation applies the guest-initiated cancellation. Cancelling a
// confirmed reservation with a captured payment dispatches a refund after the
// status commits; refund and notification outcomes never abort the
// cancellation.
func (svc *DefaultReservationService) CancelReservation(ctx context.Context, reservationID, actorID string) (*models.CancellationResult, error) {
	res, err := svc.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.GuestID != actorID {
		return nil, NewAuthorizationError("only the reserving guest may cancel reservation %s", reservationID)
	}
	if res.Status == models.ReservationCancelled {
		return nil, NewStateConflict("reservation %s is already cancelled", res.ID)
	}

	priorStatus := res.Status
	now := svc.now()
	if err := svc.Repo.CancelIfStatus(ctx, res.ID, priorStatus, now); err != nil {
		if errors.Is(err, reservationRepo.ErrStaleStatus) {
			return nil, NewStateConflict("reservation %s changed state during cancellation", res.ID)
		}
		return nil, fmt.Errorf("failed to cancel reservation %s: %w", res.ID, err)
	}

	res.Status = models.ReservationCancelled
	res.UpdatedAt = now

	result := &models.CancellationResult{Reservation: res}

	// Best-effort side effects, strictly after the commit.
	if priorStatus == models.ReservationConfirmed && res.PaymentID != "" {
		result.RefundInitiated, result.RefundID = svc.dispatchRefund(ctx, res)
	}

	svc.logger().Info("reservation cancelled",
		zap.String("reservationId", res.ID),
		zap.String("priorStatus", priorStatus),
		zap.Bool("refundInitiated", result.RefundInitiated))
	svc.notifyTransition(ctx, res, "Reservation cancelled", "The reservation was cancelled.")
	return result, nil
}

// dispatchRefund submits a full refund for a cancelled confirmed reservation.
// Failures are logged and reported through the result, never returned.
func (svc *DefaultReservationService) dispatchRefund(ctx context.Context, res *models.Reservation) (bool, string) {
	if svc.Payments == nil {
		return false, ""
	}
	refund, err := svc.Payments.Refund(ctx, models.RefundRequest{
		PaymentID:     res.PaymentID,
		ReservationID: res.ID,
		AmountCents:   res.PriceCents,
	})
	if err != nil {
		svc.logger().Warn("refund dispatch failed",
			zap.String("reservationId", res.ID),
			zap.String("paymentId", res.PaymentID),
			zap.Error(err))
		return false, ""
	}
	return refund.Initiated, refund.RefundID
}

// notifyTransition queues guest and host notices for a committed transition.
// Enqueue failures are logged and dropped.
func (svc *DefaultReservationService) notifyTransition(ctx context.Context, res *models.Reservation, title, body string) {
	if svc.Notifier == nil {
		return
	}

	recipients := []struct {
		id   string
		role string
	}{
		{res.GuestID, models.RoleGuest},
	}
	if listing, err := svc.ListingRepo.GetByID(ctx, res.ListingID); err == nil {
		recipients = append(recipients, struct {
			id   string
			role string
		}{listing.HostID, models.RoleHost})
	}

	for _, r := range recipients {
		payload := models.NotifyPayload{
			RecipientID:   r.id,
			Role:          r.role,
			Title:         title,
			Body:          body,
			ReservationID: res.ID,
			Data: map[string]string{
				"listingId": res.ListingID,
				"status":    res.Status,
			},
		}
		if err := svc.Notifier.DispatchReservationNotice(ctx, payload); err != nil {
			svc.logger().Warn("failed to queue reservation notice",
				zap.String("reservationId", res.ID),
				zap.String("recipientId", r.id),
				zap.Error(err))
		}
	}
}

func (svc *DefaultReservationService) loadReservation(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := svc.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("reservation %s not found", id)
		}
		return nil, fmt.Errorf("failed to load reservation %s: %w", id, err)
	}
	return res, nil
}

// requireHost verifies the actor owns the reservation's listing.
func (svc *DefaultReservationService) requireHost(ctx context.Context, res *models.Reservation, hostID, action string) error {
	listing, err := svc.ListingRepo.GetByID(ctx, res.ListingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NewNotFoundError("listing %s not found", res.ListingID)
		}
		return fmt.Errorf("failed to load listing %s: %w", res.ListingID, err)
	}
	if listing.HostID != hostID {
		return NewAuthorizationError("only the listing host may %s reservation %s", action, res.ID)
	}
	return nil
}
