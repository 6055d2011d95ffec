package user

import (
	"context"
	"fmt"
	"time"

	"staybook/models"
)

// GetUserByID resolves a caller to their account record.
func (svc *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := svc.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %s not found: %w", id, err)
	}
	return u, nil
}

// UpdateFCMToken stores the device token pushes are delivered to.
func (svc *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	u, err := svc.Repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %s not found: %w", userID, err)
	}
	u.FCMToken = token
	u.UpdatedAt = time.Now()
	if err := svc.Repo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update FCM token: %w", err)
	}
	return nil
}
