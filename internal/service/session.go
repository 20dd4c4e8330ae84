package service

import (
	"context"
	"errors"

	"github.com/deppfellow/gym-sessions/internal/lib/job"
	loggerPkg "github.com/deppfellow/gym-sessions/internal/logger"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/repository"
	"github.com/rs/zerolog"
)

// SessionService manages sessions and their participants.
//
// Participate and NoLongerParticipate load the session, change the
// participant set and save it whole. Two concurrent calls on the same
// session are last-write-wins.
type SessionService struct {
	sessions repository.SessionStore
	users    repository.UserStore
	jobs     TaskEnqueuer
	logger   *zerolog.Logger
}

func NewSessionService(sessions repository.SessionStore, users repository.UserStore, jobs TaskEnqueuer, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		jobs:     jobs,
		logger:   logger,
	}
}

func (s *SessionService) FindAll(ctx context.Context) ([]model.Session, error) {
	return s.sessions.FindAll(ctx)
}

// FindByID returns model.ErrSessionNotFound when id does not resolve.
func (s *SessionService) FindByID(ctx context.Context, id int64) (*model.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrSessionNotFound
	}
	return session, err
}

// Create stores a new session. Any id on session is ignored.
func (s *SessionService) Create(ctx context.Context, session *model.Session) (*model.Session, error) {
	session.ID = 0
	created, err := s.sessions.Save(ctx, session)
	if err != nil {
		return nil, err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().
		Int64("session_id", created.ID).
		Str("name", created.Name).
		Msg("session created")
	return created, nil
}

// Update replaces the stored session id with session. The id argument
// always wins over session.ID.
func (s *SessionService) Update(ctx context.Context, id int64, session *model.Session) (*model.Session, error) {
	if id <= 0 {
		return nil, model.ErrSessionNotFound
	}
	session.ID = id
	updated, err := s.sessions.Save(ctx, session)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrSessionNotFound
	}
	return updated, err
}

func (s *SessionService) Delete(ctx context.Context, id int64) error {
	err := s.sessions.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().Int64("session_id", id).Msg("session deleted")
	return nil
}

// Participate adds userID to the participants of sessionID and schedules a
// confirmation email.
func (s *SessionService) Participate(ctx context.Context, sessionID, userID int64) error {
	session, err := s.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if err := session.AddParticipant(*user); err != nil {
		return err
	}

	if _, err := s.sessions.Save(ctx, session); err != nil {
		return err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().
		Int64("session_id", sessionID).
		Int64("user_id", userID).
		Msg("user joined session")

	task, buildErr := job.NewParticipationEmailTask(job.ParticipationEmailPayload{
		To:          user.Email,
		FirstName:   user.FirstName,
		SessionID:   session.ID,
		SessionName: session.Name,
		SessionDate: session.Date,
	})
	enqueue(ctx, s.jobs, s.logger, task, buildErr)

	return nil
}

// NoLongerParticipate removes userID from the participants of sessionID.
func (s *SessionService) NoLongerParticipate(ctx context.Context, sessionID, userID int64) error {
	session, err := s.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := session.RemoveParticipant(userID); err != nil {
		return err
	}

	if _, err := s.sessions.Save(ctx, session); err != nil {
		return err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().
		Int64("session_id", sessionID).
		Int64("user_id", userID).
		Msg("user left session")
	return nil
}
