package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/jackc/pgx/v5"
)

const teacherColumns = `id, last_name, first_name, created_at, updated_at`

// TeacherRepository is the PostgreSQL TeacherStore.
type TeacherRepository struct {
	db DBTX
}

func NewTeacherRepository(db DBTX) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func scanTeacher(row pgx.CollectableRow) (model.Teacher, error) {
	var t model.Teacher
	err := row.Scan(&t.ID, &t.LastName, &t.FirstName, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TeacherRepository) Save(ctx context.Context, teacher *model.Teacher) (*model.Teacher, error) {
	saved := *teacher

	if saved.IsNew() {
		err := r.db.QueryRow(ctx, `
			INSERT INTO teachers (last_name, first_name)
			VALUES ($1, $2)
			RETURNING id, created_at, updated_at`,
			saved.LastName, saved.FirstName,
		).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert teacher: %w", err)
		}
		return &saved, nil
	}

	err := r.db.QueryRow(ctx, `
		UPDATE teachers
		SET last_name = $2, first_name = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		saved.ID, saved.LastName, saved.FirstName,
	).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update teacher %d: %w", saved.ID, notFound(err))
	}
	return &saved, nil
}

func (r *TeacherRepository) findOne(ctx context.Context, where string, arg any) (*model.Teacher, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE `+where+` ORDER BY id LIMIT 1`, arg)
	if err != nil {
		return nil, err
	}

	teacher, err := pgx.CollectExactlyOneRow(rows, scanTeacher)
	if err != nil {
		return nil, notFound(err)
	}
	return &teacher, nil
}

func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*model.Teacher, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByFirstName returns the oldest teacher with that first name.
func (r *TeacherRepository) FindByFirstName(ctx context.Context, firstName string) (*model.Teacher, error) {
	return r.findOne(ctx, "first_name = $1", firstName)
}

func (r *TeacherRepository) FindAll(ctx context.Context) ([]model.Teacher, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teacherColumns+` FROM teachers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return pgx.CollectRows(rows, scanTeacher)
}

// DeleteByID relies on ON DELETE SET NULL to detach sessions.
func (r *TeacherRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
