package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/lib/session"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	goodBearer = "Bearer good-token"
	clerkUser  = "user_clerk"
	goodKey    = "ph_live_good"
)

type stubKeys struct {
	key *model.APIKey
}

func (s *stubKeys) Authenticate(_ context.Context, raw string) (*model.APIKey, error) {
	if raw == goodKey {
		return s.key, nil
	}
	return nil, errs.NewUnauthorizedError("Invalid API key", true)
}

type authFixture struct {
	e      *echo.Echo
	auth   *AuthMiddleware
	signer *session.Signer
	keys   *stubKeys
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	s := newTestServer()
	signer, err := session.NewSigner(s.Config.Auth.SessionSecret)
	require.NoError(t, err)

	keys := &stubKeys{key: &model.APIKey{ID: uuid.New(), Name: "ci"}}
	auth := &AuthMiddleware{
		server:  s,
		signer:  signer,
		apiKeys: keys,
		clerkAuth: func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if c.Request().Header.Get(echo.HeaderAuthorization) != goodBearer {
					return errs.NewUnauthorizedError("Unauthorized", false)
				}
				setUser(c, clerkUser, AuthMethodClerk)
				return next(c)
			}
		},
		clerkOptional: func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if c.Request().Header.Get(echo.HeaderAuthorization) == goodBearer {
					setUser(c, clerkUser, AuthMethodClerk)
				}
				return next(c)
			}
		},
	}

	return &authFixture{e: newTestEcho(s), auth: auth, signer: signer, keys: keys}
}

func whoAmI(c echo.Context) error {
	method, _ := c.Get(AuthMethodKey).(string)
	return c.JSON(http.StatusOK, map[string]string{"user_id": GetUserID(c), "method": method})
}

func withCookie(req *http.Request, value string) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: value})
	return req
}

func TestRequireAuth(t *testing.T) {
	f := newAuthFixture(t)
	f.e.GET("/me", whoAmI, f.auth.RequireAuth)

	t.Run("session cookie", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/me", nil), f.signer.Sign("user_2abc"))
		rec := serve(f.e, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":"user_2abc","method":"session"}`, rec.Body.String())
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, goodBearer)
		rec := serve(f.e, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":"user_clerk","method":"clerk"}`, rec.Body.String())
	})

	t.Run("tampered cookie is cleared and falls back", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/me", nil), f.signer.Sign("user_2abc")+"x")
		rec := serve(f.e, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.CookieName, cookies[0].Name)
		assert.Less(t, cookies[0].MaxAge, 0)
	})

	t.Run("tampered cookie with valid bearer", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/me", nil), "forged.sig")
		req.Header.Set(echo.HeaderAuthorization, goodBearer)
		rec := serve(f.e, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user_id":"user_clerk","method":"clerk"}`, rec.Body.String())
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := serve(f.e, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
	})
}

func TestRequireClerkAuth_IgnoresCookie(t *testing.T) {
	f := newAuthFixture(t)
	f.e.POST("/session", whoAmI, f.auth.RequireClerkAuth)

	req := withCookie(httptest.NewRequest(http.MethodPost, "/session", nil), f.signer.Sign("user_2abc"))
	rec := serve(f.e, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	f := newAuthFixture(t)
	f.e.POST("/events", whoAmI, f.auth.OptionalAuth)

	rec := serve(f.e, httptest.NewRequest(http.MethodPost, "/events", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"","method":""}`, rec.Body.String())

	req := withCookie(httptest.NewRequest(http.MethodPost, "/events", nil), f.signer.Sign("user_2abc"))
	rec = serve(f.e, req)
	assert.JSONEq(t, `{"user_id":"user_2abc","method":"session"}`, rec.Body.String())

	req = withCookie(httptest.NewRequest(http.MethodPost, "/events", nil), "garbage")
	rec = serve(f.e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"","method":""}`, rec.Body.String())
}

func TestOptionalAuth_ClerkBearer(t *testing.T) {
	f := newAuthFixture(t)
	f.e.POST("/events", whoAmI, f.auth.OptionalAuth)

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set(echo.HeaderAuthorization, goodBearer)
	rec := serve(f.e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"user_clerk","method":"clerk"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer expired")
	rec = serve(f.e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"","method":""}`, rec.Body.String())

	// The cookie wins when both are sent.
	req = withCookie(httptest.NewRequest(http.MethodPost, "/events", nil), f.signer.Sign("user_2abc"))
	req.Header.Set(echo.HeaderAuthorization, goodBearer)
	rec = serve(f.e, req)
	assert.JSONEq(t, `{"user_id":"user_2abc","method":"session"}`, rec.Body.String())
}

func TestOptionalAuth_MalformedClerkToken(t *testing.T) {
	s := newTestServer()
	signer, err := session.NewSigner(s.Config.Auth.SessionSecret)
	require.NoError(t, err)

	auth := NewAuthMiddleware(s, signer, &stubKeys{})
	e := newTestEcho(s)
	e.POST("/events", whoAmI, auth.OptionalAuth)
	e.GET("/me", whoAmI, auth.RequireAuth)

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec := serve(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"","method":""}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec = serve(e, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAPIKey(t *testing.T) {
	f := newAuthFixture(t)
	f.e.GET("/patterns", func(c echo.Context) error {
		if key := GetAPIKey(c); key != nil {
			return c.String(http.StatusOK, key.ID.String())
		}
		return c.String(http.StatusOK, "anonymous")
	}, f.auth.OptionalAPIKey)

	rec := serve(f.e, httptest.NewRequest(http.MethodGet, "/patterns", nil))
	assert.Equal(t, "anonymous", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/patterns", nil)
	req.Header.Set(APIKeyHeader, goodKey)
	rec = serve(f.e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.keys.key.ID.String(), rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/patterns", nil)
	req.Header.Set(APIKeyHeader, "ph_live_revoked")
	rec = serve(f.e, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid API key", decodeError(t, rec).Message)
}
