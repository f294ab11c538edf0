package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/patternhub/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	StaticDir     = "static"
	openAPIUIPath = StaticDir + "/openapi.html"
)

// OpenAPIHandler serves the API reference page. The page loads its UI from
// a CDN and reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	uiPath string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{Handler: NewHandler(s), uiPath: openAPIUIPath}
}

// ServeOpenAPIUI reads the page on every request so doc edits show up
// without a restart.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := os.ReadFile(h.uiPath)
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI page: %w", err)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.HTMLBlob(http.StatusOK, page)
}
