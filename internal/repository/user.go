package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	server *server.Server
}

func NewUserRepository(s *server.Server) *UserRepository {
	return &UserRepository{server: s}
}

func (r *UserRepository) GetByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	stmt := `
		SELECT id, clerk_id, email, first_name, last_name, image_url, created_at, updated_at
		FROM users
		WHERE clerk_id = @clerk_id
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"clerk_id": clerkID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user query for clerk_id=%s: %w", clerkID, err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NotFound("users", "clerk_id "+clerkID)
		}
		return nil, fmt.Errorf("failed to collect user for clerk_id=%s: %w", clerkID, err)
	}

	return &user, nil
}

type upsertedUser struct {
	model.User
	Inserted bool `db:"inserted"`
}

// Upsert creates or refreshes the user row for a Clerk id. Profile fields
// only overwrite stored values when the provider returned them. created is
// true when the row did not exist before.
func (r *UserRepository) Upsert(ctx context.Context, payload model.UpsertUserPayload) (*model.User, bool, error) {
	stmt := `
		INSERT INTO users (clerk_id, email, first_name, last_name, image_url)
		VALUES (@clerk_id, @email, @first_name, @last_name, @image_url)
		ON CONFLICT (clerk_id) DO UPDATE SET
			email      = COALESCE(EXCLUDED.email, users.email),
			first_name = COALESCE(EXCLUDED.first_name, users.first_name),
			last_name  = COALESCE(EXCLUDED.last_name, users.last_name),
			image_url  = COALESCE(EXCLUDED.image_url, users.image_url)
		RETURNING id, clerk_id, email, first_name, last_name, image_url, created_at, updated_at,
			(xmax = 0) AS inserted
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"clerk_id":   payload.ClerkID,
		"email":      payload.Email,
		"first_name": payload.FirstName,
		"last_name":  payload.LastName,
		"image_url":  payload.ImageURL,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to execute upsert user query for clerk_id=%s: %w", payload.ClerkID, err)
	}

	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[upsertedUser])
	if err != nil {
		return nil, false, fmt.Errorf("failed to collect upserted user for clerk_id=%s: %w", payload.ClerkID, err)
	}

	return &result.User, result.Inserted, nil
}
