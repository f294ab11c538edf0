package service

import (
	"context"

	"github.com/deppfellow/patternhub/internal/lib/job"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type UserStore interface {
	GetByClerkID(ctx context.Context, clerkID string) (*model.User, error)
	Upsert(ctx context.Context, payload model.UpsertUserPayload) (*model.User, bool, error)
}

type UserService struct {
	users     UserStore
	identity  IdentityProvider
	jobs      Enqueuer
	analytics EventTracker
	logger    *zerolog.Logger
}

func NewUserService(users UserStore, identity IdentityProvider, jobs Enqueuer, analytics EventTracker, logger *zerolog.Logger) *UserService {
	return &UserService{
		users:     users,
		identity:  identity,
		jobs:      jobs,
		analytics: analytics,
		logger:    logger,
	}
}

// EnsureUser returns the local user for clerkID, creating it from the
// identity-provider profile on first sight. A failed profile fetch still
// creates a minimal row so the request can proceed.
func (s *UserService) EnsureUser(ctx context.Context, clerkID string) (*model.User, error) {
	existing, err := s.users.GetByClerkID(ctx, clerkID)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	payload := model.UpsertUserPayload{ClerkID: clerkID}
	if s.identity != nil {
		profile, err := s.identity.GetUser(ctx, clerkID)
		if err != nil {
			s.logger.Warn().Err(err).Str("clerk_id", clerkID).Msg("profile lookup failed, creating minimal user")
		} else {
			payload = *profile
			payload.ClerkID = clerkID
		}
	}

	u, created, err := s.users.Upsert(ctx, payload)
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info().Str("user_id", u.ID.String()).Msg("user created")

		if u.Email != nil {
			enqueue(ctx, s.logger, s.jobs, job.TaskWelcome, func() (*asynq.Task, error) {
				return job.NewWelcomeEmailTask(*u.Email, deref(u.FirstName))
			})
		}

		if s.analytics != nil {
			s.analytics.Track(ctx, &model.AnalyticsEvent{Name: "user_created", UserID: &u.ID})
		}
	}

	return u, nil
}
