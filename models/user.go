package models

import "time"

// User roles. Guests book listings; hosts own them.
const (
	RoleGuest = "guest"
	RoleHost  = "host"
)

// User is the identity record backing the auth collaborator.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"` // "guest" or "host"
	FCMToken     string    `bson:"fcm_token,omitempty" json:"fcm_token,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
