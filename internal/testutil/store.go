// Package testutil provides in-memory fakes for the repository stores so
// service, mapper and handler tests run without PostgreSQL.
package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/repository"
)

// MemoryStore implements repository.UserStore, TeacherStore and
// SessionStore over maps. Referential actions match the SQL schema:
// deleting a user removes it from every session, deleting a teacher unsets
// it on its sessions.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	now      func() time.Time
	users    map[int64]model.User
	teachers map[int64]model.Teacher
	sessions map[int64]storedSession

	// Err, when set, is returned by every call.
	Err error
}

type storedSession struct {
	session   model.Session
	teacherID *int64
	userIDs   []int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      func() time.Time { return time.Now().UTC() },
		users:    make(map[int64]model.User),
		teachers: make(map[int64]model.Teacher),
		sessions: make(map[int64]storedSession),
	}
}

// Repositories wraps the store in a repository container.
func (m *MemoryStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:    UserStore{m},
		Teacher: TeacherStore{m},
		Session: SessionStore{m},
	}
}

func (m *MemoryStore) stamp(b *model.Base) {
	now := m.now()
	if b.ID == 0 {
		m.nextID++
		b.ID = m.nextID
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// UserStore is the repository.UserStore view of a MemoryStore.
type UserStore struct{ m *MemoryStore }

func (s UserStore) Save(_ context.Context, user *model.User) (*model.User, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	saved := *user
	if !saved.IsNew() {
		existing, ok := m.users[saved.ID]
		if !ok {
			return nil, repository.ErrNotFound
		}
		saved.CreatedAt = existing.CreatedAt
	}
	for id, u := range m.users {
		if u.Email == saved.Email && id != saved.ID {
			return nil, ErrDuplicateEmail
		}
	}

	m.stamp(&saved.Base)
	m.users[saved.ID] = saved
	return &saved, nil
}

func (s UserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s UserStore) FindAll(_ context.Context) ([]model.User, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	users := make([]model.User, 0, len(m.users))
	for _, id := range sortedKeys(m.users) {
		users = append(users, m.users[id])
	}
	return users, nil
}

func (s UserStore) DeleteByID(_ context.Context, id int64) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)

	for sid, stored := range m.sessions {
		stored.userIDs = slices.DeleteFunc(slices.Clone(stored.userIDs), func(uid int64) bool { return uid == id })
		m.sessions[sid] = stored
	}
	return nil
}

// TeacherStore is the repository.TeacherStore view of a MemoryStore.
type TeacherStore struct{ m *MemoryStore }

func (s TeacherStore) Save(_ context.Context, teacher *model.Teacher) (*model.Teacher, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	saved := *teacher
	if !saved.IsNew() {
		existing, ok := m.teachers[saved.ID]
		if !ok {
			return nil, repository.ErrNotFound
		}
		saved.CreatedAt = existing.CreatedAt
	}

	m.stamp(&saved.Base)
	m.teachers[saved.ID] = saved
	return &saved, nil
}

func (s TeacherStore) FindByID(_ context.Context, id int64) (*model.Teacher, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	t, ok := m.teachers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s TeacherStore) FindByFirstName(_ context.Context, firstName string) (*model.Teacher, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, id := range sortedKeys(m.teachers) {
		if t := m.teachers[id]; t.FirstName == firstName {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s TeacherStore) FindAll(_ context.Context) ([]model.Teacher, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	teachers := make([]model.Teacher, 0, len(m.teachers))
	for _, id := range sortedKeys(m.teachers) {
		teachers = append(teachers, m.teachers[id])
	}
	return teachers, nil
}

func (s TeacherStore) DeleteByID(_ context.Context, id int64) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.teachers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.teachers, id)

	for sid, stored := range m.sessions {
		if stored.teacherID != nil && *stored.teacherID == id {
			stored.teacherID = nil
			m.sessions[sid] = stored
		}
	}
	return nil
}

// SessionStore is the repository.SessionStore view of a MemoryStore.
type SessionStore struct{ m *MemoryStore }

func (s SessionStore) Save(_ context.Context, session *model.Session) (*model.Session, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	saved := *session
	if !saved.IsNew() {
		existing, ok := m.sessions[saved.ID]
		if !ok {
			return nil, repository.ErrNotFound
		}
		saved.CreatedAt = existing.session.CreatedAt
	}

	stored := storedSession{}
	if saved.Teacher != nil {
		if _, ok := m.teachers[saved.Teacher.ID]; !ok {
			return nil, ErrForeignKey
		}
		id := saved.Teacher.ID
		stored.teacherID = &id
	}
	for _, u := range saved.Users {
		if _, ok := m.users[u.ID]; !ok {
			return nil, ErrForeignKey
		}
		if !slices.Contains(stored.userIDs, u.ID) {
			stored.userIDs = append(stored.userIDs, u.ID)
		}
	}

	m.stamp(&saved.Base)
	stored.session = saved
	stored.session.Teacher = nil
	stored.session.Users = nil
	m.sessions[saved.ID] = stored
	return &saved, nil
}

// hydrate rebuilds the session with its current teacher and participants.
func (m *MemoryStore) hydrate(stored storedSession) model.Session {
	session := stored.session
	if stored.teacherID != nil {
		if t, ok := m.teachers[*stored.teacherID]; ok {
			session.Teacher = &t
		}
	}
	ids := slices.Clone(stored.userIDs)
	slices.Sort(ids)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			session.Users = append(session.Users, u)
		}
	}
	return session
}

func (s SessionStore) FindByID(_ context.Context, id int64) (*model.Session, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	stored, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	session := m.hydrate(stored)
	return &session, nil
}

func (s SessionStore) FindByName(_ context.Context, name string) (*model.Session, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, id := range sortedKeys(m.sessions) {
		if stored := m.sessions[id]; stored.session.Name == name {
			session := m.hydrate(stored)
			return &session, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s SessionStore) FindAll(_ context.Context) ([]model.Session, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	sessions := make([]model.Session, 0, len(m.sessions))
	for _, id := range sortedKeys(m.sessions) {
		sessions = append(sessions, m.hydrate(m.sessions[id]))
	}
	return sessions, nil
}

func (s SessionStore) DeleteByID(_ context.Context, id int64) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, ok := m.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var (
	_ repository.UserStore    = UserStore{}
	_ repository.TeacherStore = TeacherStore{}
	_ repository.SessionStore = SessionStore{}
)
