package payment

import (
	"context"
	"fmt"
	"time"

	"staybook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway against the Stripe API. The API key is set
// globally at startup (stripe.Key in main).
type StripeGateway struct {
	Logger *zap.Logger
}

// NewStripeGateway creates a Stripe-backed payment gateway.
func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{Logger: logger}
}

// Refund submits a full-amount refund for a captured payment. The amount is
// in the smallest currency unit.
func (g *StripeGateway) Refund(ctx context.Context, req models.RefundRequest) (*models.RefundResult, error) {
	if req.PaymentID == "" {
		return nil, fmt.Errorf("refund request missing payment reference")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentID),
		Amount:        stripe.Int64(req.AmountCents),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		g.Logger.Error("stripe refund failed",
			zap.String("paymentId", req.PaymentID),
			zap.String("reservationId", req.ReservationID),
			zap.Error(err))
		return &models.RefundResult{
			Initiated:   false,
			FailureNote: err.Error(),
			RequestedAt: time.Now(),
		}, fmt.Errorf("stripe refund for payment %s: %w", req.PaymentID, err)
	}

	g.Logger.Info("stripe refund initiated",
		zap.String("refundId", r.ID),
		zap.String("paymentId", req.PaymentID),
		zap.Int64("amountCents", req.AmountCents))

	return &models.RefundResult{
		RefundID:    r.ID,
		Initiated:   true,
		RequestedAt: time.Now(),
	}, nil
}
