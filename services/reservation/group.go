package reservation

import (
	"context"
	"fmt"

	"staybook/models"

	"go.uber.org/zap"
)

// ConfirmPaymentOrderGroup confirms every pending reservation created under
// one checkout. Members are confirmed independently, each passing its own
// overlap guard; if one member's dates were taken in the interim the rest
// still confirm and the failure is reported. Callers needing all-or-nothing
// semantics must treat a partial result as requiring manual reconciliation.
func (svc *DefaultReservationService) ConfirmPaymentOrderGroup(ctx context.Context, paymentOrderID, guestID, paymentID string) (*models.GroupConfirmation, error) {
	if paymentOrderID == "" || paymentID == "" {
		return nil, NewValidationError("payment order and payment references are required")
	}

	members, err := svc.Repo.GetByPaymentOrderAndStatus(ctx, paymentOrderID, guestID, models.ReservationPending)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment order group %s: %w", paymentOrderID, err)
	}
	if len(members) == 0 {
		return nil, NewNotFoundError("no pending reservations for payment order %s", paymentOrderID)
	}

	result := &models.GroupConfirmation{}
	for i := range members {
		member := members[i]
		confirmed, err := svc.confirmMember(ctx, &member, paymentID)
		if err != nil {
			svc.logger().Warn("group member confirmation failed",
				zap.String("paymentOrderId", paymentOrderID),
				zap.String("reservationId", member.ID),
				zap.Error(err))
			result.Failed = append(result.Failed, models.GroupFailure{
				ReservationID: member.ID,
				Reason:        err.Error(),
			})
			continue
		}
		result.Confirmed = append(result.Confirmed, *confirmed)
	}

	svc.logger().Info("payment order group confirmed",
		zap.String("paymentOrderId", paymentOrderID),
		zap.Int("confirmed", len(result.Confirmed)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// CleanupFailedPaymentGroup removes every pending member of a checkout group
// after the external payment attempt failed. Confirmed members are left
// untouched.
func (svc *DefaultReservationService) CleanupFailedPaymentGroup(ctx context.Context, paymentOrderID, guestID string) (int64, error) {
	if paymentOrderID == "" {
		return 0, NewValidationError("payment order reference is required")
	}

	deleted, err := svc.Repo.DeletePendingByPaymentOrder(ctx, paymentOrderID, guestID)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up payment order group %s: %w", paymentOrderID, err)
	}

	svc.logger().Info("failed payment group cleaned up",
		zap.String("paymentOrderId", paymentOrderID),
		zap.Int64("deleted", deleted))
	return deleted, nil
}
