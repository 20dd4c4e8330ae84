// Package mapper converts between domain entities and their transport DTOs.
//
// Going from a DTO to an entity may need the database: a session DTO only
// carries ids, which are resolved through the repository stores.
package mapper

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/repository"
)

// SessionMapper converts sessions. Unresolved teacher or user ids are
// dropped unless Strict is set, in which case they fail with
// model.ErrUnknownReference.
type SessionMapper struct {
	Teachers repository.TeacherStore
	Users    repository.UserStore
	Strict   bool
}

func NewSessionMapper(repos *repository.Repositories, strict bool) *SessionMapper {
	return &SessionMapper{
		Teachers: repos.Teacher,
		Users:    repos.User,
		Strict:   strict,
	}
}

func (m *SessionMapper) ToDTO(session *model.Session) model.SessionDTO {
	dto := model.SessionDTO{
		ID:          session.ID,
		Name:        session.Name,
		Date:        session.Date,
		Description: session.Description,
		Users:       session.ParticipantIDs(),
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}
	if session.Teacher != nil {
		teacherID := session.Teacher.ID
		dto.TeacherID = &teacherID
	}
	return dto
}

func (m *SessionMapper) ToDTOs(sessions []model.Session) []model.SessionDTO {
	dtos := make([]model.SessionDTO, 0, len(sessions))
	for i := range sessions {
		dtos = append(dtos, m.ToDTO(&sessions[i]))
	}
	return dtos
}

// ToEntity resolves the teacher and participant ids of dto. Duplicate user
// ids are collapsed. Errors other than "not found" are always returned.
func (m *SessionMapper) ToEntity(ctx context.Context, dto model.SessionDTO) (*model.Session, error) {
	session := &model.Session{
		Base:        model.Base{ID: dto.ID},
		Name:        dto.Name,
		Date:        dto.Date,
		Description: dto.Description,
	}

	if dto.TeacherID != nil {
		teacher, err := m.Teachers.FindByID(ctx, *dto.TeacherID)
		switch {
		case err == nil:
			session.Teacher = teacher
		case errors.Is(err, repository.ErrNotFound):
			if m.Strict {
				return nil, fmt.Errorf("teacher %d: %w", *dto.TeacherID, model.ErrUnknownReference)
			}
		default:
			return nil, fmt.Errorf("resolve teacher %d: %w", *dto.TeacherID, err)
		}
	}

	seen := make(map[int64]struct{}, len(dto.Users))
	for _, userID := range dto.Users {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		user, err := m.Users.FindByID(ctx, userID)
		switch {
		case err == nil:
			session.Users = append(session.Users, *user)
		case errors.Is(err, repository.ErrNotFound):
			if m.Strict {
				return nil, fmt.Errorf("user %d: %w", userID, model.ErrUnknownReference)
			}
		default:
			return nil, fmt.Errorf("resolve user %d: %w", userID, err)
		}
	}

	return session, nil
}

// TeacherMapper converts teachers.
type TeacherMapper struct{}

func (TeacherMapper) ToDTO(teacher *model.Teacher) model.TeacherDTO {
	return model.TeacherDTO{
		Base:      teacher.Base,
		LastName:  teacher.LastName,
		FirstName: teacher.FirstName,
	}
}

func (m TeacherMapper) ToDTOs(teachers []model.Teacher) []model.TeacherDTO {
	dtos := make([]model.TeacherDTO, 0, len(teachers))
	for i := range teachers {
		dtos = append(dtos, m.ToDTO(&teachers[i]))
	}
	return dtos
}

func (TeacherMapper) ToEntity(dto model.TeacherDTO) *model.Teacher {
	return &model.Teacher{
		Base:      dto.Base,
		LastName:  dto.LastName,
		FirstName: dto.FirstName,
	}
}

// UserMapper converts users. The password hash never leaves the entity.
type UserMapper struct{}

func (UserMapper) ToDTO(user *model.User) model.UserDTO {
	return model.UserDTO{
		Base:      user.Base,
		Email:     user.Email,
		LastName:  user.LastName,
		FirstName: user.FirstName,
		Admin:     user.Admin,
	}
}
