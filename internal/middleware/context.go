package middleware

import (
	"context"

	"github.com/deppfellow/patternhub/internal/logger"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// UserIDKey holds the Clerk user id of the authenticated caller.
	UserIDKey = "user_id"
	// AuthMethodKey records how the caller authenticated ("session" or "clerk").
	AuthMethodKey = "auth_method"
	// APIKeyKey holds the *model.APIKey resolved from X-API-Key.
	APIKeyKey = "api_key"

	LoggerKey = "logger"
)

type loggerCtxKey struct{}

// ContextEnhancer attaches a request-scoped logger to every request.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext builds a logger carrying the request id, route, client ip
// and New Relic trace ids, and stores it in both the echo context and the
// request context. Route-level auth middleware adds user fields later via
// withLoggerFields.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			setLogger(c, &contextLogger)
			return next(c)
		}
	}
}

func setLogger(c echo.Context, l *zerolog.Logger) {
	c.Set(LoggerKey, l)
	ctx := context.WithValue(c.Request().Context(), loggerCtxKey{}, l)
	c.SetRequest(c.Request().WithContext(ctx))
}

// withLoggerFields extends the request logger in place.
func withLoggerFields(c echo.Context, fields func(zerolog.Context) zerolog.Context) {
	l := fields(GetLogger(c).With()).Logger()
	setLogger(c, &l)
}

// GetUserID returns the authenticated Clerk user id, or "".
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetAPIKey returns the API key the request authenticated with, or nil.
func GetAPIKey(c echo.Context) *model.APIKey {
	if key, ok := c.Get(APIKeyKey).(*model.APIKey); ok {
		return key
	}
	return nil
}

// GetLogger returns the request logger, or a no-op logger when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}

// LoggerFromContext returns the request logger stored by EnhanceContext for
// code that only sees a context.Context.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}
