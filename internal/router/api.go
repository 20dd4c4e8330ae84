package router

import (
	"net/http"

	"github.com/deppfellow/gym-sessions/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerAuthRoutes(r *echo.Group, h *handler.Handlers) {
	r.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK, &handler.LoginRequest{}))
	r.POST("/register", handler.Handle(h.Auth.Handler, h.Auth.Register, http.StatusOK, &handler.RegisterRequest{}))
}

func registerSessionRoutes(r *echo.Group, h *handler.Handlers) {
	sessions := r.Group("/session")

	sessions.GET("", handler.Handle(h.Session.Handler, h.Session.FindAll, http.StatusOK, &handler.EmptyRequest{}))
	sessions.POST("", handler.Handle(h.Session.Handler, h.Session.Create, http.StatusOK, &handler.CreateSessionRequest{}))
	sessions.GET("/:id", handler.Handle(h.Session.Handler, h.Session.FindByID, http.StatusOK, &handler.IDRequest{}))
	sessions.PUT("/:id", handler.Handle(h.Session.Handler, h.Session.Update, http.StatusOK, &handler.UpdateSessionRequest{}))
	sessions.DELETE("/:id", handler.HandleNoContent(h.Session.Handler, h.Session.Delete, http.StatusOK, &handler.IDRequest{}))

	sessions.POST("/:id/participate/:userId", handler.HandleNoContent(h.Session.Handler, h.Session.Participate, http.StatusOK, &handler.ParticipationRequest{}))
	sessions.DELETE("/:id/participate/:userId", handler.HandleNoContent(h.Session.Handler, h.Session.NoLongerParticipate, http.StatusOK, &handler.ParticipationRequest{}))
}

func registerTeacherRoutes(r *echo.Group, h *handler.Handlers) {
	teachers := r.Group("/teacher")

	teachers.GET("", handler.Handle(h.Teacher.Handler, h.Teacher.FindAll, http.StatusOK, &handler.EmptyRequest{}))
	teachers.POST("", handler.Handle(h.Teacher.Handler, h.Teacher.Create, http.StatusOK, &handler.CreateTeacherRequest{}))
	teachers.GET("/:id", handler.Handle(h.Teacher.Handler, h.Teacher.FindByID, http.StatusOK, &handler.IDRequest{}))
	teachers.PUT("/:id", handler.Handle(h.Teacher.Handler, h.Teacher.Update, http.StatusOK, &handler.UpdateTeacherRequest{}))
	teachers.DELETE("/:id", handler.HandleNoContent(h.Teacher.Handler, h.Teacher.Delete, http.StatusOK, &handler.IDRequest{}))
}

func registerUserRoutes(r *echo.Group, h *handler.Handlers) {
	users := r.Group("/user")

	users.GET("/:id", handler.Handle(h.User.Handler, h.User.FindByID, http.StatusOK, &handler.IDRequest{}))
	users.DELETE("/:id", handler.HandleNoContent(h.User.Handler, h.User.Delete, http.StatusOK, &handler.IDRequest{}))
}
