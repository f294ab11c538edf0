package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/jackc/pgx/v5"
)

type AnalyticsRepository struct {
	server *server.Server
}

func NewAnalyticsRepository(s *server.Server) *AnalyticsRepository {
	return &AnalyticsRepository{server: s}
}

// Insert stores one event. Properties are written as JSONB.
func (r *AnalyticsRepository) Insert(ctx context.Context, event *model.AnalyticsEvent) error {
	properties := event.Properties
	if properties == nil {
		properties = map[string]any{}
	}

	_, err := r.server.DB.Pool.Exec(ctx, `
		INSERT INTO analytics_events (name, user_id, anonymous_id, path, properties)
		VALUES (@name, @user_id, @anonymous_id, @path, @properties)
	`, pgx.NamedArgs{
		"name":         event.Name,
		"user_id":      event.UserID,
		"anonymous_id": event.AnonymousID,
		"path":         event.Path,
		"properties":   properties,
	})
	if err != nil {
		return fmt.Errorf("failed to insert analytics event name=%s: %w", event.Name, err)
	}

	return nil
}
