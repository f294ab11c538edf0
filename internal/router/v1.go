package router

import (
	"net/http"

	"github.com/deppfellow/patternhub/internal/handler"
	"github.com/deppfellow/patternhub/internal/middleware"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/labstack/echo/v4"
)

func registerV1Routes(v1 *echo.Group, s *server.Server, h *handler.Handlers, m *middleware.Middlewares) {
	limits := s.Config.RateLimit
	auth := m.Auth
	limit := m.RateLimit

	contentLimit := limit.LimitByKey(
		middleware.Rule("content", limits.Content),
		middleware.Rule("api_key", limits.APIKey),
	)

	// Session
	sessions := v1.Group("/auth/session")
	sessions.POST("", handler.Handle(h.Session.Handler, h.Session.Create, http.StatusOK, &model.Empty{}), auth.RequireClerkAuth)
	sessions.DELETE("", handler.HandleNoContent(h.Session.Handler, h.Session.Delete, http.StatusNoContent, &model.Empty{}))

	v1.GET("/me", handler.Handle(h.User.Handler, h.User.Me, http.StatusOK, &model.Empty{}), auth.RequireAuth)

	// Content
	patterns := v1.Group("/patterns", auth.OptionalAPIKey, contentLimit)
	patterns.GET("", handler.Handle(h.Content.Handler, h.Content.ListPatterns, http.StatusOK, &model.ListPatternsQuery{}))
	patterns.GET("/:slug", handler.Handle(h.Content.Handler, h.Content.GetPattern, http.StatusOK, &model.SlugParam{}))

	rules := v1.Group("/rules", auth.OptionalAPIKey, contentLimit)
	rules.GET("", handler.Handle(h.Content.Handler, h.Content.ListRules, http.StatusOK, &model.ListRulesQuery{}))
	rules.GET("/:slug", handler.Handle(h.Content.Handler, h.Content.GetRule, http.StatusOK, &model.SlugParam{}))

	// Bookmarks
	bookmarks := v1.Group("/bookmarks", auth.RequireAuth)
	bookmarks.GET("", handler.Handle(h.Bookmark.Handler, h.Bookmark.List, http.StatusOK, &model.Empty{}))
	bookmarks.POST("", handler.Handle(h.Bookmark.Handler, h.Bookmark.Create, http.StatusCreated, &model.CreateBookmarkRequest{}))
	bookmarks.POST("/sync", handler.Handle(h.Bookmark.Handler, h.Bookmark.Sync, http.StatusOK, &model.SyncBookmarksRequest{}))
	bookmarks.DELETE("/:slug", handler.HandleNoContent(h.Bookmark.Handler, h.Bookmark.Delete, http.StatusNoContent, &model.SlugParam{}))

	// Tour
	tour := v1.Group("/tour")
	tour.GET("/lessons", handler.Handle(h.Tour.Handler, h.Tour.ListLessons, http.StatusOK, &model.Empty{}))
	tour.GET("/lessons/:slug", handler.Handle(h.Tour.Handler, h.Tour.GetLesson, http.StatusOK, &model.SlugParam{}))

	progress := tour.Group("/progress", auth.RequireAuth)
	progress.GET("", handler.Handle(h.Tour.Handler, h.Tour.GetProgress, http.StatusOK, &model.Empty{}))
	progress.POST("", handler.Handle(h.Tour.Handler, h.Tour.UpdateProgress, http.StatusOK, &model.UpdateProgressRequest{}))
	progress.POST("/sync", handler.Handle(h.Tour.Handler, h.Tour.SyncProgress, http.StatusOK, &model.SyncProgressRequest{}))

	// Leads
	v1.POST("/waitlist",
		handler.Handle(h.Lead.Handler, h.Lead.JoinWaitlist, http.StatusCreated, &model.WaitlistRequest{}),
		limit.Limit(middleware.Rule("waitlist", limits.Waitlist)),
	)
	v1.POST("/consulting",
		handler.Handle(h.Lead.Handler, h.Lead.SubmitConsulting, http.StatusCreated, &model.ConsultingRequest{}),
		limit.Limit(middleware.Rule("consulting", limits.Consulting)),
	)

	// API keys
	keys := v1.Group("/api-keys", auth.RequireAuth)
	keys.GET("", handler.Handle(h.APIKey.Handler, h.APIKey.List, http.StatusOK, &model.Empty{}))
	keys.POST("", handler.Handle(h.APIKey.Handler, h.APIKey.Create, http.StatusCreated, &model.CreateAPIKeyRequest{}))
	keys.DELETE("/:id", handler.HandleNoContent(h.APIKey.Handler, h.APIKey.Revoke, http.StatusNoContent, &model.APIKeyIDParam{}))

	// Analytics
	v1.POST("/events",
		handler.Handle(h.Event.Handler, h.Event.Track, http.StatusAccepted, &model.TrackEventRequest{}),
		auth.OptionalAuth,
		limit.Limit(middleware.Rule("events", limits.Events)),
	)
}
