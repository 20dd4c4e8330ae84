package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, last_name, first_name, password, admin, created_at, updated_at`

// UserRepository is the PostgreSQL UserStore.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.CollectableRow) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.LastName, &u.FirstName, &u.Password, &u.Admin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	saved := *user

	if saved.IsNew() {
		err := r.db.QueryRow(ctx, `
			INSERT INTO users (email, last_name, first_name, password, admin)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			saved.Email, saved.LastName, saved.FirstName, saved.Password, saved.Admin,
		).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return &saved, nil
	}

	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET email = $2, last_name = $3, first_name = $4, password = $5, admin = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		saved.ID, saved.Email, saved.LastName, saved.FirstName, saved.Password, saved.Admin,
	).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", saved.ID, notFound(err))
	}
	return &saved, nil
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err != nil {
		return nil, err
	}

	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return pgx.CollectRows(rows, scanUser)
}

// DeleteByID relies on ON DELETE CASCADE to drop participations.
func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
