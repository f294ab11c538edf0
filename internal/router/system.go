package router

import (
	"github.com/deppfellow/patternhub/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes adds the endpoints outside the versioned API.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
