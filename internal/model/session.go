package model

import "time"

// Session is a scheduled class. Teacher is optional; Users is the set of
// participants and never contains the same user twice.
type Session struct {
	Base
	Name        string
	Date        time.Time
	Description string
	Teacher     *Teacher
	Users       []User
}

// HasParticipant reports whether userID is in the participant set.
func (s *Session) HasParticipant(userID int64) bool {
	for _, u := range s.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// AddParticipant appends user to the participant set.
// It fails with ErrAlreadyParticipating when the user is already a member.
func (s *Session) AddParticipant(user User) error {
	if s.HasParticipant(user.ID) {
		return ErrAlreadyParticipating
	}
	s.Users = append(s.Users, user)
	return nil
}

// RemoveParticipant removes userID from the participant set.
// It fails with ErrNotParticipating when the user is not a member.
func (s *Session) RemoveParticipant(userID int64) error {
	for i, u := range s.Users {
		if u.ID == userID {
			s.Users = append(s.Users[:i:i], s.Users[i+1:]...)
			return nil
		}
	}
	return ErrNotParticipating
}

// ParticipantIDs returns the ids of every participant, never nil.
func (s *Session) ParticipantIDs() []int64 {
	ids := make([]int64, 0, len(s.Users))
	for _, u := range s.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

// SessionDTO is the flattened transport representation of a session:
// the teacher is reduced to its id and participants to their ids.
type SessionDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	TeacherID   *int64    `json:"teacher_id"`
	Description string    `json:"description"`
	Users       []int64   `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
