package handler

import (
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Session  *SessionHandler
	User     *UserHandler
	Content  *ContentHandler
	Bookmark *BookmarkHandler
	Tour     *TourHandler
	Lead     *LeadHandler
	APIKey   *APIKeyHandler
	Event    *EventHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Session:  NewSessionHandler(s, services.Users, services.Session),
		User:     NewUserHandler(s, services.Users),
		Content:  NewContentHandler(s, services.Content),
		Bookmark: NewBookmarkHandler(s, services.Bookmarks),
		Tour:     NewTourHandler(s, services.Tour),
		Lead:     NewLeadHandler(s, services.Leads),
		APIKey:   NewAPIKeyHandler(s, services.APIKeys),
		Event:    NewEventHandler(s, services.Analytics, services.Users),
	}
}
