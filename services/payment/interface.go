package payment

import (
	"context"

	"staybook/models"
)

// Gateway is the payment collaborator the booking engine calls. Order
// creation and capture happen outside the engine; the engine only submits
// refunds for cancelled confirmed reservations.
type Gateway interface {
	Refund(ctx context.Context, req models.RefundRequest) (*models.RefundResult, error)
}
