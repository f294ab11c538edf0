// Package service contains the business logic.
//
// Services sit between handlers and repositories. Each one declares the
// narrow store interface it needs, so the repositories satisfy them in
// production and in-memory fakes satisfy them in tests.
package service

import (
	"context"
	"errors"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Enqueuer is the subset of asynq.Client used to schedule background work.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EventTracker records analytics events without blocking the caller.
type EventTracker interface {
	Track(ctx context.Context, event *model.AnalyticsEvent)
}

// UserResolver maps an identity-provider id to the local user row.
type UserResolver interface {
	EnsureUser(ctx context.Context, clerkID string) (*model.User, error)
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// enqueue schedules a task built by build. Failures are logged and
// swallowed: email delivery never changes the outcome of a request.
func enqueue(ctx context.Context, logger *zerolog.Logger, jobs Enqueuer, taskName string, build func() (*asynq.Task, error)) {
	if jobs == nil {
		return
	}

	task, err := build()
	if err != nil {
		logger.Error().Err(err).Str("task", taskName).Msg("failed to build task")
		return
	}

	info, err := jobs.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error().Err(err).Str("task", taskName).Msg("failed to enqueue task")
		return
	}

	logger.Debug().
		Str("task", taskName).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("task enqueued")
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
