package models

// NotifyPayload is the unit of work queued for the notification worker after
// a reservation transition commits.
type NotifyPayload struct {
	RecipientID   string            `json:"recipientId"`
	Role          string            `json:"role"` // "guest" or "host"
	Title         string            `json:"title"`
	Body          string            `json:"body"`
	ReservationID string            `json:"reservationId"`
	Data          map[string]string `json:"data,omitempty"`
}
