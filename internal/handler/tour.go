package handler

import (
	"github.com/deppfellow/patternhub/internal/middleware"
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
	"github.com/labstack/echo/v4"
)

type TourHandler struct {
	Handler
	tour *service.TourService
}

func NewTourHandler(s *server.Server, tour *service.TourService) *TourHandler {
	return &TourHandler{Handler: NewHandler(s), tour: tour}
}

func (h *TourHandler) ListLessons(c echo.Context, _ *model.Empty) ([]model.TourLesson, error) {
	return h.tour.ListLessons(c.Request().Context())
}

func (h *TourHandler) GetLesson(c echo.Context, p *model.SlugParam) (*model.TourLessonDetail, error) {
	return h.tour.GetLesson(c.Request().Context(), p.Slug)
}

func (h *TourHandler) GetProgress(c echo.Context, _ *model.Empty) (*model.ProgressOverview, error) {
	return h.tour.GetProgress(c.Request().Context(), middleware.GetUserID(c))
}

func (h *TourHandler) UpdateProgress(c echo.Context, req *model.UpdateProgressRequest) (*model.StepProgress, error) {
	return h.tour.UpdateProgress(c.Request().Context(), middleware.GetUserID(c), req)
}

func (h *TourHandler) SyncProgress(c echo.Context, req *model.SyncProgressRequest) (*model.ProgressOverview, error) {
	return h.tour.SyncProgress(c.Request().Context(), middleware.GetUserID(c), req.StepIDs)
}
