package model

import (
	"time"

	"github.com/deppfellow/patternhub/internal/validation"
	"github.com/google/uuid"
)

type AnalyticsEvent struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	UserID      *uuid.UUID     `json:"user_id" db:"user_id"`
	AnonymousID *string        `json:"anonymous_id" db:"anonymous_id"`
	Path        *string        `json:"path" db:"path"`
	Properties  map[string]any `json:"properties" db:"properties"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

type TrackEventRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=100"`
	AnonymousID *string        `json:"anonymous_id" validate:"omitempty,max=100"`
	Path        *string        `json:"path" validate:"omitempty,max=500"`
	Properties  map[string]any `json:"properties" validate:"max=50"`
}

func (r *TrackEventRequest) Validate() error {
	return validation.Struct(r)
}

type AcceptedResponse struct {
	Status string `json:"status"`
}
