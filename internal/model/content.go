package model

import (
	"time"

	"github.com/deppfellow/patternhub/internal/validation"
	"github.com/google/uuid"
)

type Pattern struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Content     string    `json:"content" db:"content"`
	Tags        []string  `json:"tags" db:"tags"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Rule struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Content     string    `json:"content" db:"content"`
	Tags        []string  `json:"tags" db:"tags"`
	Category    string    `json:"category" db:"category"`
	Severity    string    `json:"severity" db:"severity"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ContentFilter narrows pattern and rule listings. Category and Severity
// only apply to rules.
type ContentFilter struct {
	Query    string
	Tag      string
	Category string
	Severity string
	Limit    int
	Offset   int
}

type ListPatternsQuery struct {
	Q     string `query:"q" validate:"max=200"`
	Tag   string `query:"tag" validate:"max=50"`
	Page  int    `query:"page" validate:"gte=0,lte=100000"`
	Limit int    `query:"limit" validate:"gte=0"`
}

func (q *ListPatternsQuery) Validate() error {
	return validation.Struct(q)
}

type ListRulesQuery struct {
	Q        string `query:"q" validate:"max=200"`
	Tag      string `query:"tag" validate:"max=50"`
	Category string `query:"category" validate:"max=50"`
	Severity string `query:"severity" validate:"omitempty,oneof=info warning error"`
	Page     int    `query:"page" validate:"gte=0,lte=100000"`
	Limit    int    `query:"limit" validate:"gte=0"`
}

func (q *ListRulesQuery) Validate() error {
	return validation.Struct(q)
}
