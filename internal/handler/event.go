package handler

import (
	"strings"

	"github.com/deppfellow/patternhub/internal/middleware"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
	"github.com/labstack/echo/v4"
)

// EventHandler accepts client-side analytics events.
type EventHandler struct {
	Handler
	analytics service.EventTracker
	users     service.UserResolver
}

func NewEventHandler(s *server.Server, analytics service.EventTracker, users service.UserResolver) *EventHandler {
	return &EventHandler{Handler: NewHandler(s), analytics: analytics, users: users}
}

// Track answers 202 before the event is written. Signed-in callers are
// linked to their user; a failed lookup records the event anonymously.
func (h *EventHandler) Track(c echo.Context, req *model.TrackEventRequest) (*model.AcceptedResponse, error) {
	event := &model.AnalyticsEvent{
		Name:        strings.TrimSpace(req.Name),
		AnonymousID: req.AnonymousID,
		Path:        req.Path,
		Properties:  req.Properties,
	}

	if clerkID := middleware.GetUserID(c); clerkID != "" {
		u, err := h.users.EnsureUser(c.Request().Context(), clerkID)
		if err != nil {
			middleware.GetLogger(c).Warn().Err(err).Msg("could not resolve user for analytics event")
		} else {
			event.UserID = &u.ID
		}
	}

	h.analytics.Track(c.Request().Context(), event)

	return &model.AcceptedResponse{Status: "accepted"}, nil
}
