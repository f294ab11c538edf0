package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const apiKeyColumns = `id, user_id, name, prefix, key_hash, last_used_at, revoked_at, created_at`

type APIKeyRepository struct {
	server *server.Server
}

func NewAPIKeyRepository(s *server.Server) *APIKeyRepository {
	return &APIKeyRepository{server: s}
}

// Create inserts a key unless the user already holds maxActive unrevoked
// keys. The user row is locked for the duration of the transaction so
// concurrent creates for one user are serialized. created is false when the
// limit was reached and nothing was inserted.
func (r *APIKeyRepository) Create(ctx context.Context, userID uuid.UUID, name, prefix, keyHash string, maxActive int) (*model.APIKey, bool, error) {
	tx, err := r.server.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin create api key tx for user_id=%s: %w", userID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = @user_id FOR UPDATE`,
		pgx.NamedArgs{"user_id": userID},
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, sqlerr.NotFound("users", "id "+userID.String())
		}
		return nil, false, fmt.Errorf("failed to lock user_id=%s: %w", userID, err)
	}

	stmt := `
		INSERT INTO api_keys (user_id, name, prefix, key_hash)
		SELECT @user_id, @name, @prefix, @key_hash
		WHERE (
			SELECT COUNT(*) FROM api_keys
			WHERE user_id = @user_id AND revoked_at IS NULL
		) < @max_active
		RETURNING ` + apiKeyColumns

	rows, err := tx.Query(ctx, stmt, pgx.NamedArgs{
		"user_id":    userID,
		"name":       name,
		"prefix":     prefix,
		"key_hash":   keyHash,
		"max_active": maxActive,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to execute create api key query for user_id=%s: %w", userID, err)
	}

	key, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.APIKey])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to collect api key for user_id=%s: %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit create api key tx for user_id=%s: %w", userID, err)
	}

	return &key, true, nil
}

// ListByUser returns all keys, revoked ones included, newest first.
func (r *APIKeyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.APIKey, error) {
	stmt := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE user_id = @user_id ORDER BY created_at DESC, id DESC`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list api keys query for user_id=%s: %w", userID, err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.APIKey])
	if err != nil {
		return nil, fmt.Errorf("failed to collect api keys for user_id=%s: %w", userID, err)
	}

	return keys, nil
}

// Revoke soft-deletes a key owned by userID. Revoking twice keeps the first
// revocation time. A key owned by someone else is reported as not found.
func (r *APIKeyRepository) Revoke(ctx context.Context, userID, keyID uuid.UUID) error {
	tag, err := r.server.DB.Pool.Exec(ctx, `
		UPDATE api_keys
		SET revoked_at = COALESCE(revoked_at, NOW())
		WHERE id = @id AND user_id = @user_id
	`, pgx.NamedArgs{"id": keyID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to revoke api key id=%s: %w", keyID, err)
	}

	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("api_keys", "id "+keyID.String())
	}
	return nil
}

func (r *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*model.APIKey, error) {
	stmt := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = @key_hash`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"key_hash": keyHash})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get api key query: %w", err)
	}

	key, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.APIKey])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NotFound("api_keys", "hash")
		}
		return nil, fmt.Errorf("failed to collect api key: %w", err)
	}

	return &key, nil
}

func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, keyID uuid.UUID) error {
	_, err := r.server.DB.Pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW() WHERE id = @id`,
		pgx.NamedArgs{"id": keyID},
	)
	if err != nil {
		return fmt.Errorf("failed to touch api key id=%s: %w", keyID, err)
	}
	return nil
}
