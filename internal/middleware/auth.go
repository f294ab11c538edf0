package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/lib/session"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	AuthMethodSession = "session"
	AuthMethodClerk   = "clerk"
)

// APIKeyAuthenticator resolves a raw X-API-Key value.
type APIKeyAuthenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.APIKey, error)
}

// AuthMiddleware authenticates callers with the signed session cookie, a
// Clerk bearer token or an API key.
type AuthMiddleware struct {
	server  *server.Server
	signer  *session.Signer
	apiKeys APIKeyAuthenticator

	// clerkAuth and clerkOptional are swapped out in tests.
	clerkAuth     echo.MiddlewareFunc
	clerkOptional echo.MiddlewareFunc
}

func NewAuthMiddleware(s *server.Server, signer *session.Signer, apiKeys APIKeyAuthenticator) *AuthMiddleware {
	auth := &AuthMiddleware{
		server:  s,
		signer:  signer,
		apiKeys: apiKeys,
	}
	auth.clerkAuth = auth.clerkHeaderAuth()
	auth.clerkOptional = auth.clerkOptionalHeaderAuth()
	return auth
}

// RequireAuth accepts a valid session cookie first and falls back to the
// Clerk bearer token. A cookie that fails verification is cleared.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	withClerk := auth.clerkAuth(next)

	return func(c echo.Context) error {
		if clerkID, ok := auth.sessionUser(c); ok {
			setUser(c, clerkID, AuthMethodSession)
			return next(c)
		}
		return withClerk(c)
	}
}

// RequireClerkAuth only accepts a Clerk bearer token. It guards session
// issuance so a cookie can never mint another cookie.
func (auth *AuthMiddleware) RequireClerkAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return auth.clerkAuth(next)
}

// OptionalAuth identifies the caller from the session cookie, then from a
// Clerk bearer token. Missing or invalid credentials never reject the
// request; it continues anonymously.
func (auth *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	withClerk := auth.clerkOptional(next)

	return func(c echo.Context) error {
		if clerkID, ok := auth.sessionUser(c); ok {
			setUser(c, clerkID, AuthMethodSession)
			return next(c)
		}
		if c.Request().Header.Get(echo.HeaderAuthorization) != "" {
			return withClerk(c)
		}
		return next(c)
	}
}

// OptionalAPIKey resolves X-API-Key when sent. A present but invalid or
// revoked key is rejected rather than ignored.
func (auth *AuthMiddleware) OptionalAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(APIKeyHeader)
		if raw == "" {
			return next(c)
		}

		key, err := auth.apiKeys.Authenticate(c.Request().Context(), raw)
		if err != nil {
			return err
		}

		c.Set(APIKeyKey, key)
		withLoggerFields(c, func(l zerolog.Context) zerolog.Context {
			return l.Str("api_key_id", key.ID.String())
		})

		return next(c)
	}
}

// sessionUser verifies the session cookie. It reports false when there is
// no cookie or it is invalid, clearing invalid ones.
func (auth *AuthMiddleware) sessionUser(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	clerkID, err := auth.signer.Verify(cookie.Value)
	if err != nil {
		GetLogger(c).Warn().Err(err).Msg("rejected session cookie")
		c.SetCookie(session.ClearCookie(auth.server.Config.Auth.SecureCookies))
		return "", false
	}

	return clerkID, true
}

func setUser(c echo.Context, clerkID, method string) {
	c.Set(UserIDKey, clerkID)
	c.Set(AuthMethodKey, method)
	withLoggerFields(c, func(l zerolog.Context) zerolog.Context {
		return l.Str("user_id", clerkID).Str("auth_method", method)
	})
}

// clerkHeaderAuth wraps Clerk's net/http middleware. Clerk answers invalid
// tokens itself through the failure handler; a request without a token
// reaches the inner handler without claims.
func (auth *AuthMiddleware) clerkHeaderAuth() echo.MiddlewareFunc {
	failure := clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusUnauthorized)

		if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
			auth.server.Logger.Error().Err(err).Msg("failed to write unauthorized response")
		}
		auth.server.Logger.Warn().Str("path", r.URL.Path).Msg("rejected clerk token")
	}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return echo.WrapMiddleware(clerkhttp.WithHeaderAuthorization(failure))(func(c echo.Context) error {
			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok || claims.Subject == "" {
				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			setUser(c, claims.Subject, AuthMethodClerk)
			return next(c)
		})
	}
}

// clerkOptionalHeaderAuth verifies a Clerk bearer token without ever
// answering the request itself. A token that fails verification leaves the
// caller anonymous.
func (auth *AuthMiddleware) clerkOptionalHeaderAuth() echo.MiddlewareFunc {
	ignore := clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	verify := clerkhttp.WithHeaderAuthorization(ignore)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var subject string
			verify(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				if claims, ok := clerk.SessionClaimsFromContext(r.Context()); ok {
					subject = claims.Subject
				}
			})).ServeHTTP(c.Response(), c.Request())

			if subject == "" {
				GetLogger(c).Debug().Msg("ignoring unverified clerk token")
				return next(c)
			}

			setUser(c, subject, AuthMethodClerk)
			return next(c)
		}
	}
}
