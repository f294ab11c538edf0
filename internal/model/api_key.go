package model

import (
	"time"

	"github.com/deppfellow/patternhub/internal/validation"
	"github.com/google/uuid"
)

// APIKey is key metadata. The hash never leaves the repository layer in a
// response.
type APIKey struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"-" db:"user_id"`
	Name       string     `json:"name" db:"name"`
	Prefix     string     `json:"prefix" db:"prefix"`
	KeyHash    string     `json:"-" db:"key_hash"`
	LastUsedAt *time.Time `json:"last_used_at" db:"last_used_at"`
	RevokedAt  *time.Time `json:"revoked_at" db:"revoked_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

func (k *APIKey) Active() bool {
	return k.RevokedAt == nil
}

type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

func (r *CreateAPIKeyRequest) Validate() error {
	return validation.Struct(r)
}

// CreatedAPIKey is the only response that carries the raw key.
type CreatedAPIKey struct {
	APIKey
	Key string `json:"key"`
}

type APIKeyList struct {
	Items []APIKey `json:"items"`
}

type APIKeyIDParam struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (p *APIKeyIDParam) Validate() error {
	return validation.Struct(p)
}
