package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/patternhub/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email       string `json:"email" validate:"required,email"`
	PatternSlug string `json:"pattern_slug" validate:"omitempty,slug"`
	Message     string `json:"message" validate:"omitempty,min=10,max=20"`
}

func (p *signupPayload) Validate() error {
	return Struct(p)
}

type customPayload struct {
	IDs []string `json:"ids"`
}

func (p *customPayload) Validate() error {
	var failures CustomValidationErrors
	for _, id := range p.IDs {
		if !IsValidUUID(id) {
			failures = append(failures, CustomValidationError{Field: "ids", Message: "must contain UUIDs"})
			break
		}
	}
	if len(failures) > 0 {
		return failures
	}
	return nil
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidate_OK(t *testing.T) {
	payload := &signupPayload{}
	err := BindAndValidate(newContext(`{"email":"a@b.co","pattern_slug":"retry-policy"}`), payload)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", payload.Email)
	assert.Equal(t, "retry-policy", payload.PatternSlug)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"email":"nope","pattern_slug":"Bad Slug","message":"short"}`), &signupPayload{})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)

	byField := map[string]string{}
	for _, fe := range httpErr.Errors {
		byField[fe.Field] = fe.Error
	}
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "must contain only lowercase letters, digits and dashes", byField["pattern_slug"])
	assert.Equal(t, "must be at least 10 characters", byField["message"])
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	err := BindAndValidate(newContext(`{"email":`), &signupPayload{})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
	assert.Equal(t, "Invalid request payload", httpErr.Message)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"ids":["not-a-uuid"]}`), &customPayload{})

	httpErr := asHTTPError(t, err)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "ids", httpErr.Errors[0].Field)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "pattern_slug", toSnakeCase("PatternSlug"))
	assert.Equal(t, "email", toSnakeCase("Email"))
	assert.True(t, IsValidUUID("0b7c3c0e-8a5d-4c5e-9a7e-2f3b1a6c9d10"))
	assert.False(t, IsValidUUID("0b7c3c0e"))
	assert.True(t, IsValidSlug("effect-gen-2"))
	assert.False(t, IsValidSlug("-leading"))
}
