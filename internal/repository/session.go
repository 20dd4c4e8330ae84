package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/jackc/pgx/v5"
)

const sessionSelect = `
	SELECT s.id, s.name, s.date, s.description, s.created_at, s.updated_at,
	       t.id, t.last_name, t.first_name, t.created_at, t.updated_at
	FROM sessions s
	LEFT JOIN teachers t ON t.id = s.teacher_id`

// SessionRepository is the PostgreSQL SessionStore. The participant set is
// stored in the participate join table.
type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func scanSession(row pgx.CollectableRow) (model.Session, error) {
	var (
		s         model.Session
		teacherID *int64
		lastName  *string
		firstName *string
		createdAt *time.Time
		updatedAt *time.Time
	)

	err := row.Scan(
		&s.ID, &s.Name, &s.Date, &s.Description, &s.CreatedAt, &s.UpdatedAt,
		&teacherID, &lastName, &firstName, &createdAt, &updatedAt,
	)
	if err != nil {
		return s, err
	}

	if teacherID != nil {
		s.Teacher = &model.Teacher{
			Base:      model.Base{ID: *teacherID, CreatedAt: *createdAt, UpdatedAt: *updatedAt},
			LastName:  *lastName,
			FirstName: *firstName,
		}
	}
	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *model.Session) (*model.Session, error) {
	saved := *session

	var teacherID *int64
	if saved.Teacher != nil {
		teacherID = &saved.Teacher.ID
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if saved.IsNew() {
			err := tx.QueryRow(ctx, `
				INSERT INTO sessions (name, date, description, teacher_id)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_at, updated_at`,
				saved.Name, saved.Date, saved.Description, teacherID,
			).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
			if err != nil {
				return fmt.Errorf("insert session: %w", err)
			}
		} else {
			err := tx.QueryRow(ctx, `
				UPDATE sessions
				SET name = $2, date = $3, description = $4, teacher_id = $5, updated_at = NOW()
				WHERE id = $1
				RETURNING created_at, updated_at`,
				saved.ID, saved.Name, saved.Date, saved.Description, teacherID,
			).Scan(&saved.CreatedAt, &saved.UpdatedAt)
			if err != nil {
				return fmt.Errorf("update session %d: %w", saved.ID, notFound(err))
			}

			if _, err := tx.Exec(ctx, `DELETE FROM participate WHERE session_id = $1`, saved.ID); err != nil {
				return fmt.Errorf("clear participants of session %d: %w", saved.ID, err)
			}
		}

		participants := uniqueParticipants(saved.Users)
		if len(participants) == 0 {
			return nil
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"participate"},
			[]string{"session_id", "user_id"},
			pgx.CopyFromSlice(len(participants), func(i int) ([]any, error) {
				return []any{saved.ID, participants[i]}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("write participants of session %d: %w", saved.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func uniqueParticipants(users []model.User) []int64 {
	seen := make(map[int64]struct{}, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		ids = append(ids, u.ID)
	}
	return ids
}

func (r *SessionRepository) findOne(ctx context.Context, where string, arg any) (*model.Session, error) {
	rows, err := r.db.Query(ctx, sessionSelect+` WHERE `+where+` ORDER BY s.id LIMIT 1`, arg)
	if err != nil {
		return nil, err
	}

	session, err := pgx.CollectExactlyOneRow(rows, scanSession)
	if err != nil {
		return nil, notFound(err)
	}

	sessions := []model.Session{session}
	if err := r.loadParticipants(ctx, sessions); err != nil {
		return nil, err
	}
	return &sessions[0], nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id int64) (*model.Session, error) {
	return r.findOne(ctx, "s.id = $1", id)
}

func (r *SessionRepository) FindByName(ctx context.Context, name string) (*model.Session, error) {
	return r.findOne(ctx, "s.name = $1", name)
}

func (r *SessionRepository) FindAll(ctx context.Context) ([]model.Session, error) {
	rows, err := r.db.Query(ctx, sessionSelect+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, scanSession)
	if err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}

	if err := r.loadParticipants(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// loadParticipants fills Users of every session with one query.
func (r *SessionRepository) loadParticipants(ctx context.Context, sessions []model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	ids := make([]int64, len(sessions))
	index := make(map[int64]int, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
		index[s.ID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT p.session_id, u.id, u.email, u.last_name, u.first_name, u.password, u.admin, u.created_at, u.updated_at
		FROM participate p
		JOIN users u ON u.id = p.user_id
		WHERE p.session_id = ANY($1)
		ORDER BY p.session_id, u.id`, ids)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}

	type participant struct {
		sessionID int64
		user      model.User
	}

	participants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (participant, error) {
		var p participant
		u := &p.user
		err := row.Scan(&p.sessionID, &u.ID, &u.Email, &u.LastName, &u.FirstName, &u.Password, &u.Admin, &u.CreatedAt, &u.UpdatedAt)
		return p, err
	})
	if err != nil {
		return fmt.Errorf("scan participants: %w", err)
	}

	for _, p := range participants {
		s := &sessions[index[p.sessionID]]
		s.Users = append(s.Users, p.user)
	}
	return nil
}

// DeleteByID relies on ON DELETE CASCADE to drop participations.
func (r *SessionRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
