package reservation

import (
	"context"
	"time"

	"staybook/models"
)

// BlockingStatuses is the default set of statuses that make an interval
// unavailable. Pending reservations do not block; they only become binding
// once confirmed.
var BlockingStatuses = []string{models.ReservationConfirmed}

// HasConflict reports whether the half-open interval [start, end) on the given
// listing overlaps any existing reservation whose status is in the blocking
// set. It is called at creation to reject conflicting requests early, and
// again at confirmation time as the authoritative guard, since other
// reservations may have been confirmed in between.
func (svc *DefaultReservationService) HasConflict(ctx context.Context, listingID string, start, end time.Time, statuses []string) (bool, error) {
	if len(statuses) == 0 {
		statuses = BlockingStatuses
	}
	existing, err := svc.Repo.GetByListingAndStatuses(ctx, listingID, statuses)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if existing[i].Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

// hasConflictExcluding is the confirmation-time variant: the reservation being
// confirmed must not conflict with itself.
func (svc *DefaultReservationService) hasConflictExcluding(ctx context.Context, listingID, excludeID string, start, end time.Time) (bool, error) {
	existing, err := svc.Repo.GetByListingAndStatuses(ctx, listingID, BlockingStatuses)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if existing[i].ID == excludeID {
			continue
		}
		if existing[i].Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
