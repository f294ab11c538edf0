package server

import (
	"context"
	"testing"

	"github.com/deppfellow/patternhub/internal/config"
	"github.com/deppfellow/patternhub/internal/lib/ratelimit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_RegistersSweep(t *testing.T) {
	logger := zerolog.Nop()
	limiter := ratelimit.NewLimiter(nil, nil, &logger)

	c, err := newScheduler(limiter, &logger)
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	// The job runs the sweep directly.
	c.Entries()[0].Job.Run()
}

func TestStart_RequiresHTTPServer(t *testing.T) {
	logger := zerolog.Nop()
	s := &Server{Config: &config.Config{}, Logger: &logger}
	assert.EqualError(t, s.Start(), "HTTP server not initialized")
}

func TestShutdown_WithoutDependencies(t *testing.T) {
	s := &Server{}
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestShutdown_RunsDrainHooksInOrder(t *testing.T) {
	s := &Server{}
	var calls []string
	s.OnDrain(func() { calls = append(calls, "analytics") })
	s.OnDrain(func() { calls = append(calls, "api_keys") })

	require.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, []string{"analytics", "api_keys"}, calls)
}
