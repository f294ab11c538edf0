package handler

import (
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
	"github.com/labstack/echo/v4"
)

type ContentHandler struct {
	Handler
	content *service.ContentService
}

func NewContentHandler(s *server.Server, content *service.ContentService) *ContentHandler {
	return &ContentHandler{Handler: NewHandler(s), content: content}
}

func (h *ContentHandler) ListPatterns(c echo.Context, q *model.ListPatternsQuery) (*model.Page[model.Pattern], error) {
	return h.content.ListPatterns(c.Request().Context(), q)
}

func (h *ContentHandler) GetPattern(c echo.Context, p *model.SlugParam) (*model.Pattern, error) {
	return h.content.GetPattern(c.Request().Context(), p.Slug)
}

func (h *ContentHandler) ListRules(c echo.Context, q *model.ListRulesQuery) (*model.Page[model.Rule], error) {
	return h.content.ListRules(c.Request().Context(), q)
}

func (h *ContentHandler) GetRule(c echo.Context, p *model.SlugParam) (*model.Rule, error) {
	return h.content.GetRule(c.Request().Context(), p.Slug)
}
