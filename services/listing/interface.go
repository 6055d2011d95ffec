package listing

import (
	"context"

	listingRepo "staybook/database/repository/listing"
	"staybook/models"
)

// CreateListingInput carries the fields a host provides for a new listing.
type CreateListingInput struct {
	Title            string `json:"title" binding:"required"`
	Location         string `json:"location" binding:"required"`
	NightlyRateCents int64  `json:"nightly_rate_cents" binding:"required,gt=0"`
	MaxGuests        int    `json:"max_guests" binding:"required,gt=0"`
}

// ListingService is the listing collaborator: simple field storage the
// booking engine queries for nightly rate and host.
type ListingService interface {
	CreateListing(ctx context.Context, hostID string, input CreateListingInput) (*models.Listing, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	ListActiveListings(ctx context.Context) ([]models.Listing, error)
	ListHostListings(ctx context.Context, hostID string) ([]models.Listing, error)
}

// DefaultListingService implements ListingService.
type DefaultListingService struct {
	Repo listingRepo.ListingRepository
}
