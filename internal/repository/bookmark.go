package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookmarkRepository struct {
	server *server.Server
}

func NewBookmarkRepository(s *server.Server) *BookmarkRepository {
	return &BookmarkRepository{server: s}
}

// ListByUser returns the user's bookmarks, newest first.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bookmark, error) {
	stmt := `
		SELECT
			b.id,
			b.pattern_id,
			p.slug AS pattern_slug,
			p.title AS pattern_title,
			p.description,
			p.tags,
			p.difficulty,
			b.created_at
		FROM bookmarks b
		JOIN patterns p ON p.id = b.pattern_id
		WHERE b.user_id = @user_id
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list bookmarks query for user_id=%s: %w", userID, err)
	}

	bookmarks, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Bookmark])
	if err != nil {
		return nil, fmt.Errorf("failed to collect bookmarks for user_id=%s: %w", userID, err)
	}

	return bookmarks, nil
}

// AddMany bookmarks every pattern id for the user. Existing bookmarks are
// left untouched.
func (r *BookmarkRepository) AddMany(ctx context.Context, userID uuid.UUID, patternIDs []uuid.UUID) error {
	if len(patternIDs) == 0 {
		return nil
	}

	stmt := `
		INSERT INTO bookmarks (user_id, pattern_id)
		SELECT @user_id, pid FROM UNNEST(@pattern_ids::uuid[]) AS pid
		ON CONFLICT (user_id, pattern_id) DO NOTHING
	`

	_, err := r.server.DB.Pool.Exec(ctx, stmt, pgx.NamedArgs{
		"user_id":     userID,
		"pattern_ids": patternIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to insert bookmarks for user_id=%s: %w", userID, err)
	}

	return nil
}

// RemoveBySlug deletes the bookmark for a pattern slug. Removing a bookmark
// that does not exist is not an error.
func (r *BookmarkRepository) RemoveBySlug(ctx context.Context, userID uuid.UUID, slug string) error {
	stmt := `
		DELETE FROM bookmarks b
		USING patterns p
		WHERE p.id = b.pattern_id
		  AND b.user_id = @user_id
		  AND p.slug = @slug
	`

	_, err := r.server.DB.Pool.Exec(ctx, stmt, pgx.NamedArgs{
		"user_id": userID,
		"slug":    slug,
	})
	if err != nil {
		return fmt.Errorf("failed to delete bookmark slug=%s for user_id=%s: %w", slug, userID, err)
	}

	return nil
}
