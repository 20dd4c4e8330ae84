package repository

import (
	"github.com/deppfellow/gym-sessions/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	User    UserStore
	Teacher TeacherStore
	Session SessionStore
}

// NewRepositories builds the PostgreSQL repositories on top of the server's
// connection pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewPgxRepositories(s.DB.Pool)
}

// NewPgxRepositories builds the repositories on any DBTX.
func NewPgxRepositories(db DBTX) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Teacher: NewTeacherRepository(db),
		Session: NewSessionRepository(db),
	}
}
