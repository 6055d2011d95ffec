package user

import (
	"context"

	userRepo "staybook/database/repository/user"
	"staybook/models"

	"github.com/go-redis/redis/v8"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=guest host"`
}

// UserService is the identity collaborator: it resolves callers to an id and
// role, and issues/revokes access tokens.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	RevokeAuthToken(ctx context.Context, userID string) error
	UpdateFCMToken(ctx context.Context, userID, token string) error
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	AuthCache *redis.Client
}
