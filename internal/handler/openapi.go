package handler

import (
	"net/http"

	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/deppfellow/gym-sessions/static"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OpenAPIHandler serves the API documentation UI. The UI loads
// /static/openapi.json.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := static.Files.ReadFile("openapi.html")
	if err != nil {
		return errors.Wrap(err, "read OpenAPI UI template")
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.HTMLBlob(http.StatusOK, page)
}
