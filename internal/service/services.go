package service

import (
	"github.com/deppfellow/gym-sessions/internal/lib/job"
	"github.com/deppfellow/gym-sessions/internal/lib/token"
	"github.com/deppfellow/gym-sessions/internal/repository"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/pkg/errors"
)

// Services groups every service so they can be wired in one place.
type Services struct {
	Auth    *AuthService
	User    *UserService
	Teacher *TeacherService
	Session *SessionService
	Job     *job.JobService
}

// NewService builds every service on top of the shared server resources.
// Background tasks are only scheduled when the job service is running.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	tokens, err := token.NewManager(s.Config.Auth)
	if err != nil {
		return nil, errors.Wrap(err, "create token manager")
	}

	var jobs TaskEnqueuer
	if s.Job != nil && s.Job.Client != nil {
		jobs = s.Job.Client
	}

	return &Services{
		Auth:    NewAuthService(repos.User, tokens, jobs, s.Logger),
		User:    NewUserService(repos.User, s.Logger),
		Teacher: NewTeacherService(repos.Teacher, s.Logger),
		Session: NewSessionService(repos.Session, repos.User, jobs, s.Logger),
		Job:     s.Job,
	}, nil
}
