package reservationRepo

import (
	"context"
	"errors"
	"time"

	"staybook/models"
)

// ErrStaleStatus is returned by the conditional mutation methods when the
// record's persisted status no longer matches the expected one, i.e. a
// concurrent transition won the write.
var ErrStaleStatus = errors.New("reservation status changed since read")

// ReservationRepository abstracts persistence for reservation records.
// Mutations that change status are conditional on the status read before the
// write, so concurrent transitions resolve to exactly one winner.
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByListingAndStatuses(ctx context.Context, listingID string, statuses []string) ([]models.Reservation, error)
	GetByPaymentOrderAndStatus(ctx context.Context, paymentOrderID, guestID, status string) ([]models.Reservation, error)
	ListByGuest(ctx context.Context, guestID string) ([]models.Reservation, error)
	ListByListing(ctx context.Context, listingID string) ([]models.Reservation, error)

	// ConfirmIfPending atomically moves a pending reservation to confirmed,
	// attaching the payment reference. Returns ErrStaleStatus if the record is
	// no longer pending.
	ConfirmIfPending(ctx context.Context, id, paymentID string, now time.Time) error

	// CancelIfStatus atomically moves a reservation from the expected status to
	// cancelled. Returns ErrStaleStatus if the status changed underneath.
	CancelIfStatus(ctx context.Context, id, expectedStatus string, now time.Time) error

	// DeletePendingByPaymentOrder removes every pending member of a checkout
	// group, leaving confirmed members untouched. Returns the deleted count.
	DeletePendingByPaymentOrder(ctx context.Context, paymentOrderID, guestID string) (int64, error)

	// DeleteExpiredPending removes all pending reservations created before the
	// cutoff. Returns the deleted count.
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)
}
