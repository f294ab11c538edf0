package handler

import (
	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/service"
	"github.com/labstack/echo/v4"
)

type LeadHandler struct {
	Handler
	leads *service.LeadService
}

func NewLeadHandler(s *server.Server, leads *service.LeadService) *LeadHandler {
	return &LeadHandler{Handler: NewHandler(s), leads: leads}
}

func (h *LeadHandler) JoinWaitlist(c echo.Context, req *model.WaitlistRequest) (*model.WaitlistResponse, error) {
	return h.leads.JoinWaitlist(c.Request().Context(), req)
}

func (h *LeadHandler) SubmitConsulting(c echo.Context, req *model.ConsultingRequest) (*model.ConsultingInquiry, error) {
	return h.leads.SubmitConsulting(c.Request().Context(), req)
}
