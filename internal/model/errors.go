package model

import (
	"errors"
	"fmt"
)

// Error families. Handlers translate these into HTTP statuses; every
// specific error below wraps exactly one of them.
var (
	// ErrNotFound means an id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means the requested state change is not allowed
	// from the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidInput means the request was well-formed but its content is
	// rejected by a business rule.
	ErrInvalidInput = errors.New("invalid input")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrTeacherNotFound = fmt.Errorf("teacher %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)

	ErrAlreadyParticipating = fmt.Errorf("%w: user already participates in this session", ErrInvalidTransition)
	ErrNotParticipating     = fmt.Errorf("%w: user does not participate in this session", ErrInvalidTransition)

	ErrEmailTaken       = fmt.Errorf("%w: email is already taken", ErrInvalidInput)
	ErrUnknownReference = fmt.Errorf("%w: referenced teacher or user does not exist", ErrInvalidInput)
)

var (
	// ErrInvalidCredentials is returned when an email/password pair does not
	// authenticate.
	ErrInvalidCredentials = errors.New("bad credentials")

	// ErrForbidden is returned when an authenticated principal may not act on
	// the target resource.
	ErrForbidden = errors.New("forbidden")
)
