package service

import (
	"context"
	"testing"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/service/servicetest"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testClerkID = "user_2abc"

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fixture struct {
	users     *servicetest.Users
	identity  *servicetest.Identity
	jobs      *servicetest.Enqueuer
	tracker   *servicetest.Tracker
	content   *servicetest.Content
	userSvc   *UserService
	bookmarks *BookmarkService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	email := "ada@example.com"
	name := "Ada"
	f := &fixture{
		users: servicetest.NewUsers(),
		identity: &servicetest.Identity{Profiles: map[string]*model.UpsertUserPayload{
			testClerkID: {ClerkID: testClerkID, Email: &email, FirstName: &name},
		}},
		jobs:    &servicetest.Enqueuer{},
		tracker: &servicetest.Tracker{},
		content: &servicetest.Content{
			Patterns: []model.Pattern{
				{ID: uuid.New(), Slug: "effect-gen", Title: "Effect.gen", Description: "Generator syntax", Tags: []string{"core"}, Difficulty: "beginner"},
				{ID: uuid.New(), Slug: "retry-policy", Title: "Retry policies", Description: "Schedules for retries", Tags: []string{"resilience"}, Difficulty: "intermediate"},
				{ID: uuid.New(), Slug: "layer-basics", Title: "Layers", Description: "Dependency injection", Tags: []string{"core", "di"}, Difficulty: "beginner"},
			},
			Rules: []model.Rule{
				{ID: uuid.New(), Slug: "no-run-sync", Title: "Avoid runSync", Category: "runtime", Severity: "error"},
				{ID: uuid.New(), Slug: "prefer-gen", Title: "Prefer Effect.gen", Category: "style", Severity: "info", Tags: []string{"core"}},
			},
		},
	}
	f.userSvc = NewUserService(f.users, f.identity, f.jobs, f.tracker, nopLogger())
	f.bookmarks = NewBookmarkService(f.userSvc, servicetest.NewBookmarks(f.content), f.content.PatternStore())
	return f
}

func (f *fixture) user(t *testing.T) *model.User {
	t.Helper()
	u, err := f.userSvc.EnsureUser(context.Background(), testClerkID)
	require.NoError(t, err)
	return u
}
