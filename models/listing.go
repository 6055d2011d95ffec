package models

import "time"

// Listing is the unit a guest reserves. The engine treats listings as simple
// field storage; only the host and nightly rate matter to the booking flow.
type Listing struct {
	ID               string    `bson:"id" json:"id"`
	HostID           string    `bson:"host_id" json:"host_id"`
	Title            string    `bson:"title" json:"title"`
	Location         string    `bson:"location" json:"location"`
	NightlyRateCents int64     `bson:"nightly_rate_cents" json:"nightly_rate_cents"`
	MaxGuests        int       `bson:"max_guests" json:"max_guests"`
	Active           bool      `bson:"active" json:"active"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
