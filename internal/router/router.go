// Package router builds the Echo instance: global middleware, the public
// auth routes, and the authenticated API guarded by the role policy.
package router

import (
	"net/http"

	"github.com/deppfellow/gym-sessions/internal/handler"
	"github.com/deppfellow/gym-sessions/internal/middleware"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Policy lists the routes restricted to administrators. Session deletion
// and participation routes stay open to every authenticated user.
var Policy = middleware.Policy{
	{Method: http.MethodPost, Path: "/api/session"}:       {model.RoleAdmin},
	{Method: http.MethodPut, Path: "/api/session/:id"}:    {model.RoleAdmin},
	{Method: http.MethodPost, Path: "/api/teacher"}:       {model.RoleAdmin},
	{Method: http.MethodPut, Path: "/api/teacher/:id"}:    {model.RoleAdmin},
	{Method: http.MethodDelete, Path: "/api/teacher/:id"}: {model.RoleAdmin},
}

func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	router.Pre(echoMiddleware.RemoveTrailingSlash())

	router.Use(
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	auth := router.Group("/api/auth", m.RateLimit.Limit(s.Config.Server.AuthRateLimit))
	registerAuthRoutes(auth, h)

	api := router.Group("/api",
		m.Auth.RequireAuth,
		middleware.NumericParams("id", "userId"),
		m.Auth.Authorize(Policy),
	)
	registerSessionRoutes(api, h)
	registerTeacherRoutes(api, h)
	registerUserRoutes(api, h)

	return router
}
