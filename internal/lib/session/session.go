// Package session signs and verifies the session cookie issued after a
// successful identity-provider sign-in.
//
// A session value is "<userID>.<signature>" where the signature is the
// unpadded base64url HMAC-SHA256 of the user id. There is no server-side
// session state; expiry is the cookie max-age.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// CookieName is the name of the session cookie.
const CookieName = "ph_session"

var (
	ErrMissingSecret    = errors.New("session: secret must not be empty")
	ErrMalformed        = errors.New("session: malformed value")
	ErrInvalidSignature = errors.New("session: invalid signature")
)

// Signer produces and checks session values with one shared secret.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns the cookie value for userID.
func (s *Signer) Sign(userID string) string {
	return userID + "." + s.signature(userID)
}

// Verify returns the user id carried by value when its signature matches.
func (s *Signer) Verify(value string) (string, error) {
	if value == "" {
		return "", ErrMalformed
	}

	// User ids may contain dots; the signature never does.
	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 || idx == len(value)-1 {
		return "", ErrMalformed
	}

	userID, sig := value[:idx], value[idx+1:]

	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrMalformed
	}

	if !hmac.Equal(got, s.mac(userID)) {
		return "", ErrInvalidSignature
	}

	return userID, nil
}

func (s *Signer) mac(userID string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(userID))
	return h.Sum(nil)
}

func (s *Signer) signature(userID string) string {
	return base64.RawURLEncoding.EncodeToString(s.mac(userID))
}

// NewCookie builds the session cookie. maxAge is in seconds.
func NewCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie in the browser.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
