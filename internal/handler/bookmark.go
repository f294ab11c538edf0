package handler

import (
	"github.com/deppfellow/patternhub/internal/middleware"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
	"github.com/labstack/echo/v4"
)

type BookmarkHandler struct {
	Handler
	bookmarks *service.BookmarkService
}

func NewBookmarkHandler(s *server.Server, bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{Handler: NewHandler(s), bookmarks: bookmarks}
}

func (h *BookmarkHandler) List(c echo.Context, _ *model.Empty) (*model.BookmarkList, error) {
	return h.bookmarks.List(c.Request().Context(), middleware.GetUserID(c))
}

func (h *BookmarkHandler) Create(c echo.Context, req *model.CreateBookmarkRequest) (*model.Bookmark, error) {
	return h.bookmarks.Add(c.Request().Context(), middleware.GetUserID(c), req.PatternSlug)
}

func (h *BookmarkHandler) Delete(c echo.Context, p *model.SlugParam) error {
	return h.bookmarks.Remove(c.Request().Context(), middleware.GetUserID(c), p.Slug)
}

func (h *BookmarkHandler) Sync(c echo.Context, req *model.SyncBookmarksRequest) (*model.BookmarkList, error) {
	return h.bookmarks.Sync(c.Request().Context(), middleware.GetUserID(c), req.Slugs)
}
