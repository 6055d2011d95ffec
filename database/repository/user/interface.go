package userRepo

import (
	"context"

	"staybook/models"
)

// UserRepository abstracts persistence for the identity collaborator.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
