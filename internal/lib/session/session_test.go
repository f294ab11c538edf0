package session

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newSigner(t *testing.T, secret string) *Signer {
	t.Helper()
	s, err := NewSigner(secret)
	require.NoError(t, err)
	return s
}

func TestSignVerify_RoundTrip(t *testing.T) {
	s := newSigner(t, testSecret)

	for _, id := range []string{"user_2abc", "user.with.dots", "u"} {
		value := s.Sign(id)
		assert.True(t, strings.HasPrefix(value, id+"."))

		got, err := s.Verify(value)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestVerify_RejectsTampering(t *testing.T) {
	s := newSigner(t, testSecret)
	value := s.Sign("user_2abc")
	sig := value[strings.LastIndexByte(value, '.')+1:]

	// Flip the first signature character to another valid base64url symbol.
	flipped := "A"
	if sig[0] == 'A' {
		flipped = "B"
	}

	tests := []struct {
		name  string
		value string
		want  error
	}{
		{"modified user id", "user_2abd." + sig, ErrInvalidSignature},
		{"modified signature", "user_2abc." + flipped + sig[1:], ErrInvalidSignature},
		{"wrong secret", newSigner(t, "another-secret-another-secret-xx").Sign("user_2abc"), ErrInvalidSignature},
		{"truncated signature", value[:len(value)-4], ErrInvalidSignature},
		{"empty", "", ErrMalformed},
		{"no separator", "user_2abc", ErrMalformed},
		{"empty user id", "." + sig, ErrMalformed},
		{"empty signature", "user_2abc.", ErrMalformed},
		{"bad encoding", "user_2abc.***", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Verify(tt.value)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, got)
		})
	}
}

func TestNewSigner_EmptySecret(t *testing.T) {
	_, err := NewSigner("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestCookies(t *testing.T) {
	c := NewCookie("v", 3600, true)
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)

	cleared := ClearCookie(false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
	assert.False(t, cleared.Secure)
}
