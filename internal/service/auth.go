package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/gym-sessions/internal/lib/job"
	"github.com/deppfellow/gym-sessions/internal/lib/token"
	loggerPkg "github.com/deppfellow/gym-sessions/internal/logger"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/repository"
	"github.com/deppfellow/gym-sessions/internal/sqlerr"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// uniqueEmailConstraint is the users.email unique constraint name.
const uniqueEmailConstraint = "unique_users_email"

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService verifies credentials, registers accounts and issues tokens.
type AuthService struct {
	users    repository.UserStore
	tokens   *token.Manager
	jobs     TaskEnqueuer
	logger   *zerolog.Logger
	hashCost int
}

func NewAuthService(users repository.UserStore, tokens *token.Manager, jobs TaskEnqueuer, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		jobs:     jobs,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords both fail with model.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		loggerPkg.FromContext(ctx, s.logger).Warn().Str("email", email).Msg("login rejected")
		return nil, err
	}

	raw, expiresAt, err := s.IssueToken(user.Principal())
	if err != nil {
		return nil, err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().Int64("user_id", user.ID).Msg("user logged in")
	return &LoginResult{Token: raw, ExpiresAt: expiresAt, User: user}, nil
}

// Register creates a non-admin account and schedules the welcome email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrEmailTaken
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Save(ctx, &model.User{
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
	})
	// A concurrent registration can still win the race on the constraint.
	if sqlerr.IsUniqueViolation(err, uniqueEmailConstraint) {
		return nil, model.ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	loggerPkg.FromContext(ctx, s.logger).Info().Int64("user_id", user.ID).Msg("user registered")

	task, buildErr := job.NewWelcomeEmailTask(user.Email, user.FirstName)
	enqueue(ctx, s.jobs, s.logger, task, buildErr)

	return user, nil
}

// EnsureAdmin creates an admin account for email, or promotes the existing
// account, so a fresh deployment always has someone able to manage sessions.
// The password of an existing account is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Admin {
			return user, nil
		}
		user.Admin = true
		promoted, err := s.users.Save(ctx, user)
		if err != nil {
			return nil, err
		}
		loggerPkg.FromContext(ctx, s.logger).Info().Int64("user_id", promoted.ID).Msg("existing user promoted to admin")
		return promoted, nil

	case errors.Is(err, repository.ErrNotFound):
		hash, err := s.hashPassword(password)
		if err != nil {
			return nil, err
		}
		admin, err := s.users.Save(ctx, &model.User{
			Email:     email,
			FirstName: "Admin",
			LastName:  "Admin",
			Password:  hash,
			Admin:     true,
		})
		if err != nil {
			return nil, err
		}
		loggerPkg.FromContext(ctx, s.logger).Info().Int64("user_id", admin.ID).Msg("admin account created")
		return admin, nil

	default:
		return nil, err
	}
}

func (s *AuthService) IssueToken(principal *model.Principal) (string, time.Time, error) {
	return s.tokens.Issue(principal)
}

// CurrentPrincipal rebuilds the principal of userID from the stored account,
// so a deleted or demoted user loses rights before the token expires.
func (s *AuthService) CurrentPrincipal(ctx context.Context, userID int64) (*model.Principal, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user.Principal(), nil
}

func (s *AuthService) ValidateToken(raw string) (*model.Principal, error) {
	return s.tokens.Validate(raw)
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password exceeds 72 bytes", model.ErrInvalidInput)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
