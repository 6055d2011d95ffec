package notification

import (
	"context"

	"staybook/models"
)

// Dispatcher queues reservation notices for asynchronous delivery. Dispatch
// happens strictly after the state transition commits; a failed enqueue is
// logged by the caller and never rolls back the transition.
type Dispatcher interface {
	DispatchReservationNotice(ctx context.Context, p models.NotifyPayload) error
}

// PushSender delivers a notice to a recipient's device. The asynq worker is
// the only caller.
type PushSender interface {
	Send(ctx context.Context, recipientID, title, body string, data map[string]string) error
}
