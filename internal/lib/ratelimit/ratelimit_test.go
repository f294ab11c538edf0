package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

type failingStore struct {
	calls int
}

func (s *failingStore) Increment(context.Context, string, time.Duration) (int64, time.Time, error) {
	s.calls++
	return 0, time.Time{}, errors.New("dial tcp: connection refused")
}

func TestLimiter_FixedWindow(t *testing.T) {
	clock := newClock()
	mem := NewMemoryStore()
	mem.now = clock.Now

	limiter := NewLimiter(nil, mem, nil)
	rule := Rule{Name: "waitlist", Limit: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := limiter.Allow(ctx, "203.0.113.7", rule)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "call %d", i)
		assert.Equal(t, 3-i, res.Remaining)
		assert.Equal(t, clock.Now().Add(time.Minute), res.ResetAt)
	}

	res, err := limiter.Allow(ctx, "203.0.113.7", rule)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	// Other identifiers have their own budget.
	res, err = limiter.Allow(ctx, "198.51.100.1", rule)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	clock.Advance(time.Minute)
	res, err = limiter.Allow(ctx, "203.0.113.7", rule)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestLimiter_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &failingStore{}
	limiter := NewLimiter(primary, nil, nil)
	rule := Rule{Name: "consulting", Limit: 1, Window: time.Hour}

	res, err := limiter.Allow(context.Background(), "user_1", rule)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.Allow(context.Background(), "user_1", rule)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 1, limiter.Fallback().Len())
}

func TestLimiter_InvalidRule(t *testing.T) {
	_, err := NewLimiter(nil, nil, nil).Allow(context.Background(), "x", Rule{Name: "bad"})
	assert.Error(t, err)
}

func TestMemoryStore_Sweep(t *testing.T) {
	clock := newClock()
	mem := NewMemoryStore()
	mem.now = clock.Now

	_, _, _ = mem.Increment(context.Background(), "a", time.Minute)
	_, _, _ = mem.Increment(context.Background(), "b", time.Hour)
	assert.Equal(t, 0, mem.Sweep())

	clock.Advance(time.Minute)
	assert.Equal(t, 1, mem.Sweep())
	assert.Equal(t, 1, mem.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	mem := NewMemoryStore()
	mem.now = newClock().Now
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = mem.Increment(context.Background(), "k", time.Hour)
		}()
	}
	wg.Wait()

	count, _, err := mem.Increment(context.Background(), "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(51), count)
}

func TestResult_RetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Second, Result{ResetAt: now}.RetryAfter(now))
	assert.Equal(t, 2*time.Second, Result{ResetAt: now.Add(1500 * time.Millisecond)}.RetryAfter(now))
	assert.Equal(t, 30*time.Second, Result{ResetAt: now.Add(30 * time.Second)}.RetryAfter(now))
}
