package model

import (
	"errors"
	"testing"
)

func TestSession_AddParticipant_Succeeds(t *testing.T) {
	session := &Session{Name: "Yoga"}

	err := session.AddParticipant(User{Base: Base{ID: 7}})

	if err != nil {
		t.Fatalf("unexpected error adding participant: %v", err)
	}
	if len(session.Users) != 1 || session.Users[0].ID != 7 {
		t.Errorf("participant not added correctly: %+v", session.Users)
	}
}

func TestSession_AddParticipant_Twice_ReturnsError(t *testing.T) {
	session := &Session{Users: []User{{Base: Base{ID: 7}}}}

	err := session.AddParticipant(User{Base: Base{ID: 7}})

	if !errors.Is(err, ErrAlreadyParticipating) {
		t.Fatalf("expected ErrAlreadyParticipating, got %v", err)
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ErrAlreadyParticipating should wrap ErrInvalidTransition")
	}
	if len(session.Users) != 1 {
		t.Errorf("participant set must be unchanged, got %d users", len(session.Users))
	}
}

func TestSession_RemoveParticipant(t *testing.T) {
	session := &Session{Users: []User{{Base: Base{ID: 1}}, {Base: Base{ID: 2}}, {Base: Base{ID: 3}}}}
	original := session.Users

	if err := session.RemoveParticipant(2); err != nil {
		t.Fatalf("unexpected error removing participant: %v", err)
	}

	ids := session.ParticipantIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("unexpected participants after removal: %v", ids)
	}
	if original[1].ID != 2 {
		t.Error("removal must not mutate the previously shared backing array")
	}
}

func TestSession_RemoveParticipant_NonMember_ReturnsError(t *testing.T) {
	session := &Session{Users: []User{{Base: Base{ID: 1}}}}

	err := session.RemoveParticipant(99)

	if !errors.Is(err, ErrNotParticipating) {
		t.Fatalf("expected ErrNotParticipating, got %v", err)
	}
	if len(session.Users) != 1 {
		t.Errorf("participant set must be unchanged, got %d users", len(session.Users))
	}
}

func TestSession_ParticipantIDs_NeverNil(t *testing.T) {
	session := &Session{}
	if ids := session.ParticipantIDs(); ids == nil {
		t.Error("ParticipantIDs should return an empty slice, not nil")
	}
}

func TestPrincipal_HasAnyRole(t *testing.T) {
	admin := (&User{Base: Base{ID: 1}, Admin: true}).Principal()
	user := (&User{Base: Base{ID: 2}}).Principal()

	if !admin.HasAnyRole(RoleAdmin) {
		t.Error("admin principal should have ADMIN role")
	}
	if user.HasAnyRole(RoleAdmin) {
		t.Error("regular principal must not have ADMIN role")
	}
	if !user.HasAnyRole() {
		t.Error("empty role requirement should accept any principal")
	}

	var nobody *Principal
	if nobody.HasAnyRole() {
		t.Error("nil principal must never be authorized")
	}
}
