package listingRepo

import (
	"context"

	"staybook/models"
)

// ListingRepository abstracts persistence for listing records. Listings are
// simple field storage; the booking engine only resolves rate and host.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Listing, error)
	ListActive(ctx context.Context) ([]models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, id string) error
}
