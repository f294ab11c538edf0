package handler

import (
	"time"

	"github.com/deppfellow/patternhub/internal/lib/session"
	"github.com/deppfellow/patternhub/internal/middleware"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
	"github.com/labstack/echo/v4"
)

// SessionHandler exchanges a Clerk token for the signed session cookie.
type SessionHandler struct {
	Handler
	users  *service.UserService
	signer *session.Signer
}

func NewSessionHandler(s *server.Server, users *service.UserService, signer *session.Signer) *SessionHandler {
	return &SessionHandler{
		Handler: NewHandler(s),
		users:   users,
		signer:  signer,
	}
}

func (h *SessionHandler) Create(c echo.Context, _ *model.Empty) (*model.SessionResponse, error) {
	clerkID := middleware.GetUserID(c)

	u, err := h.users.EnsureUser(c.Request().Context(), clerkID)
	if err != nil {
		return nil, err
	}

	auth := h.server.Config.Auth
	c.SetCookie(session.NewCookie(h.signer.Sign(clerkID), auth.SessionMaxAge, auth.SecureCookies))

	return &model.SessionResponse{
		User:      u,
		ExpiresAt: time.Now().UTC().Add(time.Duration(auth.SessionMaxAge) * time.Second),
	}, nil
}

func (h *SessionHandler) Delete(c echo.Context, _ *model.Empty) error {
	c.SetCookie(session.ClearCookie(h.server.Config.Auth.SecureCookies))
	return nil
}
