package handler

import (
	"github.com/deppfellow/patternhub/internal/middleware"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
	"github.com/labstack/echo/v4"
)

type APIKeyHandler struct {
	Handler
	keys *service.APIKeyService
}

func NewAPIKeyHandler(s *server.Server, keys *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{Handler: NewHandler(s), keys: keys}
}

// Create returns the raw key. It is never retrievable again.
func (h *APIKeyHandler) Create(c echo.Context, req *model.CreateAPIKeyRequest) (*model.CreatedAPIKey, error) {
	return h.keys.Create(c.Request().Context(), middleware.GetUserID(c), req)
}

func (h *APIKeyHandler) List(c echo.Context, _ *model.Empty) (*model.APIKeyList, error) {
	return h.keys.List(c.Request().Context(), middleware.GetUserID(c))
}

func (h *APIKeyHandler) Revoke(c echo.Context, p *model.APIKeyIDParam) error {
	return h.keys.Revoke(c.Request().Context(), middleware.GetUserID(c), p.ID)
}
