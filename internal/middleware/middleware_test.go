package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/patternhub/internal/config"
	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	l := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Auth: config.AuthConfig{
				SessionSecret: strings.Repeat("s", 32),
				SessionMaxAge: config.DefaultSessionMaxAge,
			},
			RateLimit: config.DefaultRateLimitConfig(),
		},
		Logger: &l,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestGlobalErrorHandler(t *testing.T) {
	e := newTestEcho(newTestServer())

	e.GET("/bad", func(c echo.Context) error {
		return errs.NewBadRequestError("Validation failed", true, nil, []errs.FieldError{{Field: "email", Error: "is required"}}, nil)
	})
	e.GET("/missing", func(c echo.Context) error {
		return sqlerr.NotFound("patterns", "slug effect-gen")
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("dial tcp: connection refused")
	})

	t.Run("http error keeps its shape", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/bad", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "BAD_REQUEST", body.Code)
		assert.True(t, body.Override)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "email", body.Errors[0].Field)
	})

	t.Run("no rows becomes a named 404", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Pattern not found", decodeError(t, rec).Message)
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "NOT_FOUND", body.Code)
		assert.Equal(t, "Route not found", body.Message)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/bad", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, rec).Code)
	})

	t.Run("head has no body", func(t *testing.T) {
		e.HEAD("/bad", func(c echo.Context) error {
			return errs.NewBadRequestError("nope", false, nil, nil, nil)
		})
		rec := serve(e, httptest.NewRequest(http.MethodHead, "/bad", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	e := newTestEcho(newTestServer())
	e.Use(RequestID())

	var seen string
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := serve(e, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = serve(e, req)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestEnhanceContext_StoresLogger(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())

	e.GET("/", func(c echo.Context) error {
		assert.Same(t, GetLogger(c), LoggerFromContext(c.Request().Context()))
		return c.NoContent(http.StatusOK)
	})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, statusFromError(errs.NewTooManyRequestsError("slow down")))
	assert.Equal(t, http.StatusNotFound, statusFromError(echo.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("x")))
}
