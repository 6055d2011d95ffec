package reservation

import (
	"context"
	"time"

	listingRepo "staybook/database/repository/listing"
	reservationRepo "staybook/database/repository/reservation"
	userRepo "staybook/database/repository/user"
	"staybook/models"
	"staybook/services/notification"
	"staybook/services/payment"

	"go.uber.org/zap"
)

// ReservationService owns the reservation lifecycle: creation, payment
// confirmation (single and per checkout group), host approval/rejection,
// cancellation with refund dispatch, failed-payment cleanup and the expiry
// sweep.
type ReservationService interface {
	CreateReservation(ctx context.Context, guestID, listingID string, start, end time.Time, paymentOrderID string) (*models.Reservation, error)
	ConfirmReservation(ctx context.Context, reservationID, guestID, paymentID string) (*models.Reservation, error)
	ConfirmPaymentOrderGroup(ctx context.Context, paymentOrderID, guestID, paymentID string) (*models.GroupConfirmation, error)
	ApproveReservation(ctx context.Context, reservationID, hostID string) (*models.Reservation, error)
	RejectReservation(ctx context.Context, reservationID, hostID string) (*models.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, actorID string) (*models.CancellationResult, error)
	CleanupFailedPaymentGroup(ctx context.Context, paymentOrderID, guestID string) (int64, error)
	SweepExpiredPending(ctx context.Context, ttl time.Duration) (int64, error)

	HasConflict(ctx context.Context, listingID string, start, end time.Time, statuses []string) (bool, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListGuestReservations(ctx context.Context, guestID string) ([]models.Reservation, error)
	ListListingReservations(ctx context.Context, listingID, hostID string) ([]models.Reservation, error)
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Repo        reservationRepo.ReservationRepository
	ListingRepo listingRepo.ListingRepository
	UserRepo    userRepo.UserRepository
	Payments    payment.Gateway
	Notifier    notification.Dispatcher
	Logger      *zap.Logger

	// Now is the clock used for timestamps and the sweep cutoff. Injected so
	// tests can simulate elapsed time. Defaults to time.Now.
	Now func() time.Time

	locks listingLocks
}

func (svc *DefaultReservationService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now().UTC()
}

func (svc *DefaultReservationService) logger() *zap.Logger {
	if svc.Logger != nil {
		return svc.Logger
	}
	return zap.L()
}
