package model

import (
	"time"

	"github.com/deppfellow/patternhub/internal/validation"
	"github.com/google/uuid"
)

// Bookmark is a saved pattern, joined with the pattern summary.
type Bookmark struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PatternID    uuid.UUID `json:"pattern_id" db:"pattern_id"`
	PatternSlug  string    `json:"pattern_slug" db:"pattern_slug"`
	PatternTitle string    `json:"pattern_title" db:"pattern_title"`
	Description  string    `json:"description" db:"description"`
	Tags         []string  `json:"tags" db:"tags"`
	Difficulty   string    `json:"difficulty" db:"difficulty"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateBookmarkRequest struct {
	PatternSlug string `json:"pattern_slug" validate:"required,slug,max=200"`
}

func (r *CreateBookmarkRequest) Validate() error {
	return validation.Struct(r)
}

// SyncBookmarksRequest carries bookmarks saved locally while signed out.
type SyncBookmarksRequest struct {
	Slugs []string `json:"slugs" validate:"max=500,dive,max=200"`
}

func (r *SyncBookmarksRequest) Validate() error {
	return validation.Struct(r)
}

type BookmarkList struct {
	Items []Bookmark `json:"items"`
}
