package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the local mirror of an identity-provider account.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ClerkID   string    `json:"clerk_id" db:"clerk_id"`
	Email     *string   `json:"email" db:"email"`
	FirstName *string   `json:"first_name" db:"first_name"`
	LastName  *string   `json:"last_name" db:"last_name"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertUserPayload is the profile data copied from the identity provider.
type UpsertUserPayload struct {
	ClerkID   string
	Email     *string
	FirstName *string
	LastName  *string
	ImageURL  *string
}

// SessionResponse is returned when a session cookie is issued.
type SessionResponse struct {
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}
