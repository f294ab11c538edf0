package model

import (
	"time"

	"github.com/deppfellow/patternhub/internal/validation"
	"github.com/google/uuid"
)

type WaitlistSignup struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      *string   `json:"name" db:"name"`
	Source    *string   `json:"source" db:"source"`
	Interest  *string   `json:"interest" db:"interest"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type WaitlistRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Source   *string `json:"source" validate:"omitempty,max=100"`
	Interest *string `json:"interest" validate:"omitempty,max=200"`
}

func (r *WaitlistRequest) Validate() error {
	return validation.Struct(r)
}

type WaitlistResponse struct {
	Signup            *WaitlistSignup `json:"signup"`
	AlreadyRegistered bool            `json:"already_registered"`
}

type ConsultingInquiry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Company   *string   `json:"company" db:"company"`
	Role      *string   `json:"role" db:"role"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ConsultingRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=100"`
	Email   string  `json:"email" validate:"required,email,max=254"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Role    *string `json:"role" validate:"omitempty,max=100"`
	Message string  `json:"message" validate:"required,min=10,max=5000"`
}

func (r *ConsultingRequest) Validate() error {
	return validation.Struct(r)
}
