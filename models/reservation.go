package models

import "time"

// Reservation statuses. Transitions only move forward:
// pending -> confirmed, pending|confirmed -> cancelled.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Reservation represents a guest's claim on a listing for a date interval.
type Reservation struct {
	ID             string    `bson:"id" json:"id"`                             // Unique reservation identifier (UUID)
	GuestID        string    `bson:"guest_id" json:"guest_id"`                 // Guest who made the reservation
	ListingID      string    `bson:"listing_id" json:"listing_id"`             // Listing being reserved
	StartDate      time.Time `bson:"start_date" json:"start_date"`             // Check-in date (inclusive), UTC midnight
	EndDate        time.Time `bson:"end_date" json:"end_date"`                 // Check-out date (exclusive), UTC midnight
	Status         string    `bson:"status" json:"status"`                     // "pending", "confirmed" or "cancelled"
	PriceCents     int64     `bson:"price_cents" json:"price_cents"`           // nightly rate x nights, smallest currency unit
	PaymentOrderID string    `bson:"payment_order_id" json:"payment_order_id"` // Checkout group shared by reservations created together
	PaymentID      string    `bson:"payment_id,omitempty" json:"payment_id,omitempty"` // Captured payment reference, set on confirmation
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// Nights returns the number of nights covered by the reservation interval.
func (r *Reservation) Nights() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

// Overlaps reports whether the reservation's half-open interval intersects
// [start, end). Adjacent intervals (checkout day = next check-in day) do not
// overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && start.Before(r.EndDate)
}
