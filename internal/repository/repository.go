// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Every method is a single atomic unit against PostgreSQL. Callers must not
// assume atomicity across two calls.
package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup, update or delete targets a row
// that does not exist. pgx.ErrNoRows never leaves this package.
var ErrNotFound = errors.New("record not found")

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UserStore persists users.
type UserStore interface {
	// Save inserts the user when its id is zero and updates it otherwise.
	Save(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]model.User, error)
	// DeleteByID also removes the user from every session it joined.
	DeleteByID(ctx context.Context, id int64) error
}

// TeacherStore persists teachers.
type TeacherStore interface {
	Save(ctx context.Context, teacher *model.Teacher) (*model.Teacher, error)
	FindByID(ctx context.Context, id int64) (*model.Teacher, error)
	FindByFirstName(ctx context.Context, firstName string) (*model.Teacher, error)
	FindAll(ctx context.Context) ([]model.Teacher, error)
	// DeleteByID unsets the teacher of every session it led.
	DeleteByID(ctx context.Context, id int64) error
}

// SessionStore persists sessions together with their participant sets.
type SessionStore interface {
	// Save writes the session row and replaces its participant set.
	Save(ctx context.Context, session *model.Session) (*model.Session, error)
	FindByID(ctx context.Context, id int64) (*model.Session, error)
	FindByName(ctx context.Context, name string) (*model.Session, error)
	FindAll(ctx context.Context) ([]model.Session, error)
	DeleteByID(ctx context.Context, id int64) error
}

// notFound translates pgx.ErrNoRows into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
