package models

import "time"

// RefundRequest is submitted to the payment gateway when a confirmed
// reservation with a captured payment is cancelled. Amount is the full
// reservation price in the smallest currency unit.
type RefundRequest struct {
	PaymentID     string `json:"payment_id"`
	ReservationID string `json:"reservation_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
}

// RefundResult reports the gateway outcome. The reservation's cancellation
// commits regardless of this result.
type RefundResult struct {
	RefundID    string    `json:"refund_id,omitempty"`
	Initiated   bool      `json:"initiated"`
	FailureNote string    `json:"failure_note,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// CancellationResult is returned to the caller of a cancel operation. Refund
// and notification outcomes are best-effort side effects, never a reason the
// cancellation itself fails.
type CancellationResult struct {
	Reservation     *Reservation `json:"reservation"`
	RefundInitiated bool         `json:"refund_initiated"`
	RefundID        string       `json:"refund_id,omitempty"`
}

// GroupFailure describes one payment-order group member whose confirmation
// failed while the rest of the group proceeded.
type GroupFailure struct {
	ReservationID string `json:"reservation_id"`
	Reason        string `json:"reason"`
}

// GroupConfirmation is the partial-success result of confirming a
// payment-order group.
type GroupConfirmation struct {
	Confirmed []Reservation  `json:"confirmed"`
	Failed    []GroupFailure `json:"failed"`
}
