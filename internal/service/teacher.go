package service

import (
	"context"
	"errors"

	loggerPkg "github.com/deppfellow/gym-sessions/internal/logger"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/repository"
	"github.com/rs/zerolog"
)

type TeacherService struct {
	teachers repository.TeacherStore
	logger   *zerolog.Logger
}

func NewTeacherService(teachers repository.TeacherStore, logger *zerolog.Logger) *TeacherService {
	return &TeacherService{teachers: teachers, logger: logger}
}

func (s *TeacherService) FindAll(ctx context.Context) ([]model.Teacher, error) {
	return s.teachers.FindAll(ctx)
}

// FindByID returns model.ErrTeacherNotFound when id does not resolve.
func (s *TeacherService) FindByID(ctx context.Context, id int64) (*model.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrTeacherNotFound
	}
	return teacher, err
}

// Create stores a new teacher. Any id on teacher is ignored.
func (s *TeacherService) Create(ctx context.Context, teacher *model.Teacher) (*model.Teacher, error) {
	teacher.ID = 0
	created, err := s.teachers.Save(ctx, teacher)
	if err != nil {
		return nil, err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().Int64("teacher_id", created.ID).Msg("teacher created")
	return created, nil
}

// Update overwrites teacher id with the given one.
func (s *TeacherService) Update(ctx context.Context, id int64, teacher *model.Teacher) (*model.Teacher, error) {
	if id <= 0 {
		return nil, model.ErrTeacherNotFound
	}
	teacher.ID = id
	updated, err := s.teachers.Save(ctx, teacher)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrTeacherNotFound
	}
	return updated, err
}

// Delete removes the teacher and unsets it on the sessions it led.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	err := s.teachers.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ErrTeacherNotFound
	}
	if err != nil {
		return err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().Int64("teacher_id", id).Msg("teacher deleted")
	return nil
}
