package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/patternhub/internal/lib/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser_CreatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.userSvc.EnsureUser(ctx, testClerkID)
	require.NoError(t, err)
	require.NotNil(t, first.Email)
	assert.Equal(t, "ada@example.com", *first.Email)

	second, err := f.userSvc.EnsureUser(ctx, testClerkID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, []string{job.TaskWelcome}, f.jobs.Types())
	assert.Equal(t, []string{"user_created"}, f.tracker.Names())
}

func TestEnsureUser_ProfileLookupFails(t *testing.T) {
	f := newFixture(t)
	f.identity.Err = errors.New("clerk down")

	u, err := f.userSvc.EnsureUser(context.Background(), testClerkID)
	require.NoError(t, err)
	assert.Equal(t, testClerkID, u.ClerkID)
	assert.Nil(t, u.Email)

	// No address, no welcome email.
	assert.Empty(t, f.jobs.Types())
}

func TestEnsureUser_StoreError(t *testing.T) {
	f := newFixture(t)
	f.users.Err = errors.New("connection refused")

	_, err := f.userSvc.EnsureUser(context.Background(), testClerkID)
	assert.EqualError(t, err, "connection refused")
}

func TestEnsureUser_EnqueueFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.jobs.Err = errors.New("redis down")

	_, err := f.userSvc.EnsureUser(context.Background(), testClerkID)
	assert.NoError(t, err)
}
