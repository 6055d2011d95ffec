package listing

import (
	"context"
	"fmt"
	"time"

	"staybook/models"

	"github.com/google/uuid"
)

// CreateListing stores a new active listing for a host.
func (svc *DefaultListingService) CreateListing(ctx context.Context, hostID string, input CreateListingInput) (*models.Listing, error) {
	now := time.Now()
	l := &models.Listing{
		ID:               uuid.New().String(),
		HostID:           hostID,
		Title:            input.Title,
		Location:         input.Location,
		NightlyRateCents: input.NightlyRateCents,
		MaxGuests:        input.MaxGuests,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := svc.Repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return l, nil
}

// GetListing retrieves a listing by id.
func (svc *DefaultListingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	return svc.Repo.GetByID(ctx, id)
}

// ListActiveListings retrieves all listings open for booking.
func (svc *DefaultListingService) ListActiveListings(ctx context.Context) ([]models.Listing, error) {
	return svc.Repo.ListActive(ctx)
}

// ListHostListings retrieves a host's listings.
func (svc *DefaultListingService) ListHostListings(ctx context.Context, hostID string) ([]models.Listing, error) {
	return svc.Repo.ListByHost(ctx, hostID)
}
