package service

import (
	"context"
	"errors"

	loggerPkg "github.com/deppfellow/gym-sessions/internal/logger"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/repository"
	"github.com/rs/zerolog"
)

type UserService struct {
	users  repository.UserStore
	logger *zerolog.Logger
}

func NewUserService(users repository.UserStore, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// FindByID returns model.ErrUserNotFound when id does not resolve.
func (s *UserService) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrUserNotFound
	}
	return user, err
}

// Delete removes the user and its participations.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.users.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// DeleteSelf deletes the account id on behalf of principal. Only the owner
// of an account may delete it.
func (s *UserService) DeleteSelf(ctx context.Context, principal *model.Principal, id int64) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if principal == nil || principal.UserID != user.ID {
		return model.ErrForbidden
	}

	return s.Delete(ctx, id)
}
