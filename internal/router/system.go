package router

import (
	"github.com/deppfellow/gym-sessions/internal/handler"
	"github.com/deppfellow/gym-sessions/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the public health and documentation
// endpoints.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.Files)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
