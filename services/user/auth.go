package user

import (
	"context"
	"fmt"
	"time"

	"staybook/models"
	"staybook/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 24 * time.Hour

// Register creates an account and signs the caller in.
func (svc *DefaultUserService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if existing, _ := svc.Repo.GetByEmail(ctx, input.Email); existing != nil {
		return nil, "", fmt.Errorf("an account with email %s already exists", input.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &models.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := svc.Repo.Create(ctx, u); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := svc.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate verifies credentials and issues a fresh token.
func (svc *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := svc.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	token, err := svc.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// issueToken signs a JWT and records its hash in the auth cache so tokens can
// be revoked server-side.
func (svc *DefaultUserService) issueToken(ctx context.Context, u *models.User) (string, error) {
	token, err := utils.GenerateToken(u.ID, u.Role, tokenDuration)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	if svc.AuthCache != nil {
		key := utils.AuthCachePrefix + u.ID
		if err := svc.AuthCache.Set(ctx, key, utils.HashToken(token), utils.AuthCacheTTL).Err(); err != nil {
			return "", fmt.Errorf("failed to cache auth token: %w", err)
		}
	}
	return token, nil
}

// RevokeAuthToken drops the cached token hash, invalidating outstanding tokens.
func (svc *DefaultUserService) RevokeAuthToken(ctx context.Context, userID string) error {
	if svc.AuthCache == nil {
		return nil
	}
	if err := svc.AuthCache.Del(ctx, utils.AuthCachePrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to revoke auth token: %w", err)
	}
	return nil
}
