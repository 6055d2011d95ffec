package reservation

import (
	"context"
	"errors"
	"fmt"

	"staybook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// GetReservation retrieves a single reservation by id.
func (svc *DefaultReservationService) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return svc.loadReservation(ctx, id)
}

// ListGuestReservations retrieves all reservations made by a guest.
func (svc *DefaultReservationService) ListGuestReservations(ctx context.Context, guestID string) ([]models.Reservation, error) {
	results, err := svc.Repo.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for guest %s: %w", guestID, err)
	}
	return results, nil
}

// ListListingReservations retrieves all reservations on a listing for its
// host.
func (svc *DefaultReservationService) ListListingReservations(ctx context.Context, listingID, hostID string) ([]models.Reservation, error) {
	listing, err := svc.ListingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("listing %s not found", listingID)
		}
		return nil, fmt.Errorf("failed to load listing %s: %w", listingID, err)
	}
	if listing.HostID != hostID {
		return nil, NewAuthorizationError("only the listing host may view its reservations")
	}

	results, err := svc.Repo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for listing %s: %w", listingID, err)
	}
	return results, nil
}
