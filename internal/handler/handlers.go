package handler

import (
	"github.com/deppfellow/gym-sessions/internal/mapper"
	"github.com/deppfellow/gym-sessions/internal/repository"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/deppfellow/gym-sessions/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Auth    *AuthHandler
	Session *SessionHandler
	Teacher *TeacherHandler
	User    *UserHandler
}

// NewHandlers wires handlers to their services. repos backs the session
// mapper's reference resolution.
func NewHandlers(s *server.Server, services *service.Services, repos *repository.Repositories) *Handlers {
	sessionMapper := mapper.NewSessionMapper(repos, s.Config.Domain.StrictReferences)

	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Auth:    NewAuthHandler(s, services.Auth),
		Session: NewSessionHandler(s, services.Session, sessionMapper),
		Teacher: NewTeacherHandler(s, services.Teacher),
		User:    NewUserHandler(s, services.User),
	}
}
