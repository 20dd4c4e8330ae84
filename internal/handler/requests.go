package handler

import (
	"fmt"
	"time"

	"github.com/deppfellow/gym-sessions/internal/validation"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// IDRequest addresses a resource by its path id. Any well-formed int64 is
// accepted; ids that match nothing are answered with 404 by the services.
type IDRequest struct {
	ID int64 `param:"id" json:"-"`
}

func (r *IDRequest) Validate() error {
	return nil
}

// ParticipationRequest addresses a user within a session.
type ParticipationRequest struct {
	ID     int64 `param:"id" json:"-"`
	UserID int64 `param:"userId" json:"-"`
}

func (r *ParticipationRequest) Validate() error {
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=50"`
	FirstName string `json:"firstName" validate:"required,min=3,max=20"`
	LastName  string `json:"lastName" validate:"required,min=3,max=20"`
	Password  string `json:"password" validate:"required,min=6,max=40"`
}

func (r *RegisterRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if len(r.Password) > maxPasswordBytes {
		return validation.CustomValidationErrors{{
			Field:   "password",
			Message: fmt.Sprintf("must not exceed %d bytes", maxPasswordBytes),
		}}
	}
	return nil
}

// SessionBody is the writable part of a session. Any id in the body is
// ignored; updates take the id from the path.
type SessionBody struct {
	Name        string     `json:"name" validate:"required,max=50"`
	Date        *time.Time `json:"date" validate:"required"`
	TeacherID   *int64     `json:"teacher_id"`
	Description string     `json:"description" validate:"required,max=2500"`
	Users       []int64    `json:"users" validate:"omitempty,dive,gt=0"`
}

type CreateSessionRequest struct {
	SessionBody
}

func (r *CreateSessionRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateSessionRequest struct {
	ID int64 `param:"id" json:"-"`
	SessionBody
}

func (r *UpdateSessionRequest) Validate() error {
	return validation.Struct(r)
}

type TeacherBody struct {
	FirstName string `json:"firstName" validate:"required,max=20"`
	LastName  string `json:"lastName" validate:"required,max=20"`
}

type CreateTeacherRequest struct {
	TeacherBody
}

func (r *CreateTeacherRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateTeacherRequest struct {
	ID int64 `param:"id" json:"-"`
	TeacherBody
}

func (r *UpdateTeacherRequest) Validate() error {
	return validation.Struct(r)
}

// EmptyRequest is used by routes without input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}
