package middleware

import (
	"strconv"
	"time"

	"github.com/deppfellow/patternhub/internal/config"
	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/lib/ratelimit"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"

	rateLimitHitEvent   = "RateLimitHit"
	globalRuleName      = "global"
	globalStoreExpiry   = 3 * time.Minute
	tooManyRequestsText = "Too many requests, please try again later"
)

// EventRecorder is satisfied by logger.LoggerService.
type EventRecorder interface {
	RecordCustomEvent(eventType string, params map[string]interface{})
}

// RateLimitMiddleware enforces per-route fixed-window limits and the global
// per-IP burst guard.
type RateLimitMiddleware struct {
	server   *server.Server
	limiter  *ratelimit.Limiter
	recorder EventRecorder
	now      func() time.Time
}

func NewRateLimitMiddleware(s *server.Server, limiter *ratelimit.Limiter, recorder EventRecorder) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server:   s,
		limiter:  limiter,
		recorder: recorder,
		now:      time.Now,
	}
}

// Rule converts a configured limit into a named rule.
func Rule(name string, cfg config.RateLimitRule) ratelimit.Rule {
	return ratelimit.Rule{Name: name, Limit: cfg.Limit, Window: cfg.Window}
}

func (r *RateLimitMiddleware) disabled() bool {
	return r.server.Config.RateLimit == nil || r.server.Config.RateLimit.Disabled
}

// Limit applies rule to every caller.
func (r *RateLimitMiddleware) Limit(rule ratelimit.Rule) echo.MiddlewareFunc {
	return r.LimitByKey(rule, rule)
}

// LimitByKey applies keyed to requests that authenticated with an API key
// and anonymous to everything else. OptionalAPIKey must run first.
func (r *RateLimitMiddleware) LimitByKey(anonymous, keyed ratelimit.Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.disabled() {
				return next(c)
			}

			rule := anonymous
			if GetAPIKey(c) != nil {
				rule = keyed
			}

			identifier := identify(c)
			res, err := r.limiter.Allow(c.Request().Context(), identifier, rule)
			if err != nil {
				return err
			}

			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
			h.Set(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := res.RetryAfter(r.now())
				h.Set(HeaderRetryAfter, strconv.Itoa(int(retryAfter.Seconds())))

				GetLogger(c).Warn().
					Str("rule", rule.Name).
					Str("identifier", identifier).
					Dur("retry_after", retryAfter).
					Msg("rate limit exceeded")

				r.RecordRateLimitHit(rule.Name, c.Path(), identifier)
				return errs.NewTooManyRequestsError(tooManyRequestsText)
			}

			return next(c)
		}
	}
}

// Global is a coarse per-IP token bucket in front of every route.
func (r *RateLimitMiddleware) Global() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if cfg == nil {
		cfg = config.DefaultRateLimitConfig()
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return cfg.Disabled || c.Path() == "/status"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.GlobalRPS),
			Burst:     cfg.GlobalBurst,
			ExpiresIn: globalStoreExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(globalRuleName, c.Path(), "ip:"+identifier)
			return errs.NewTooManyRequestsError(tooManyRequestsText)
		},
	})
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(rule, endpoint, identifier string) {
	if r.recorder == nil {
		return
	}
	r.recorder.RecordCustomEvent(rateLimitHitEvent, map[string]interface{}{
		"rule":     rule,
		"endpoint": endpoint,
		"client":   identifier,
	})
}

// identify keys a request by API key, then signed-in user, then client IP.
func identify(c echo.Context) string {
	if key := GetAPIKey(c); key != nil {
		return "key:" + key.ID.String()
	}
	if userID := GetUserID(c); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.RealIP()
}
