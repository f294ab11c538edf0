// Package ratelimit implements fixed-window request limiting.
//
// Counters live in Redis so limits hold across instances. When Redis is
// unavailable the Limiter degrades to an in-process MemoryStore, which is
// only accurate per instance but keeps abuse protection in place.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Rule is a named limit of Limit requests per Window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left until the window resets, rounded up to whole
// seconds and never below one.
func (r Result) RetryAfter(now time.Time) time.Duration {
	secs := math.Ceil(r.ResetAt.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

// Store counts hits per key inside fixed windows.
type Store interface {
	// Increment adds one hit to the window containing now and returns the
	// new count and the window end.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

// Limiter applies rules against a primary store with an in-process fallback.
type Limiter struct {
	primary  Store
	fallback *MemoryStore
	logger   *zerolog.Logger
}

// NewLimiter returns a limiter. primary may be nil, in which case only the
// in-process store is used.
func NewLimiter(primary Store, fallback *MemoryStore, logger *zerolog.Logger) *Limiter {
	if fallback == nil {
		fallback = NewMemoryStore()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Limiter{primary: primary, fallback: fallback, logger: logger}
}

// Fallback exposes the in-process store so callers can schedule Sweep.
func (l *Limiter) Fallback() *MemoryStore {
	return l.fallback
}

// Allow records one hit for identifier under rule.
func (l *Limiter) Allow(ctx context.Context, identifier string, rule Rule) (Result, error) {
	if rule.Limit <= 0 || rule.Window <= 0 {
		return Result{}, fmt.Errorf("ratelimit: invalid rule %q", rule.Name)
	}

	key := Key(rule.Name, identifier)

	var (
		count   int64
		resetAt time.Time
		err     error
	)

	if l.primary != nil {
		count, resetAt, err = l.primary.Increment(ctx, key, rule.Window)
		if err != nil {
			l.logger.Warn().
				Err(err).
				Str("rule", rule.Name).
				Msg("rate limit store unavailable, using in-process fallback")
		}
	}

	if l.primary == nil || err != nil {
		count, resetAt, err = l.fallback.Increment(ctx, key, rule.Window)
		if err != nil {
			return Result{}, err
		}
	}

	remaining := rule.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(rule.Limit),
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Key builds the counter key for one rule and identifier.
func Key(rule, identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s", rule, identifier)
}

func windowBounds(now time.Time, window time.Duration) (time.Time, time.Time) {
	start := now.Truncate(window)
	return start, start.Add(window)
}
