// Package model defines persisted entities and the request/response payloads
// exchanged over the API.
//
// Entities carry `db` tags so repositories can scan rows with
// pgx.RowToStructByName. Request types implement validation.Validatable.
package model

import "github.com/deppfellow/patternhub/internal/validation"

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Empty is used by routes that take no input.
type Empty struct{}

func (*Empty) Validate() error { return nil }

// SlugParam binds a ":slug" path parameter.
type SlugParam struct {
	Slug string `param:"slug" validate:"required,slug"`
}

func (p *SlugParam) Validate() error {
	return validation.Struct(p)
}
