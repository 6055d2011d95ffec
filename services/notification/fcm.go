package notification

import (
	"context"
	"fmt"

	userRepo "staybook/database/repository/user"
	"staybook/utils"

	"firebase.google.com/go/v4/messaging"
)

// FCMSender delivers pushes through Firebase Cloud Messaging, looking up the
// recipient's device token in the user store.
type FCMSender struct {
	Users userRepo.UserRepository
}

// Send looks up the recipient's FCM token and sends a push. A recipient with
// no registered device is not an error; there is simply nothing to deliver.
func (s *FCMSender) Send(ctx context.Context, recipientID, title, body string, data map[string]string) error {
	u, err := s.Users.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("notification recipient %s: %w", recipientID, err)
	}
	if u.FCMToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message to %s: %w", recipientID, err)
	}
	return nil
}
