// Package token issues and validates the HS256 bearer tokens handed out at
// login.
package token

import (
	"time"

	"github.com/deppfellow/gym-sessions/internal/config"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/pkg/errors"
)

// Issuer is written to and required in the iss claim.
const Issuer = config.ServiceName

// MinSecretLength is the shortest HS256 key accepted.
const MinSecretLength = 32

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWeakSecret   = errors.New("jwt secret is too short")
)

// privateClaims are the claims besides the registered ones.
type privateClaims struct {
	UserID int64        `json:"uid"`
	Roles  []model.Role `json:"roles"`
}

// Manager signs and verifies tokens with a shared secret.
type Manager struct {
	key    []byte
	ttl    time.Duration
	signer jose.Signer
	now    func() time.Time
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}

	key := []byte(cfg.JWTSecret)
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create jwt signer")
	}

	return &Manager{
		key:    key,
		ttl:    ttl,
		signer: signer,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for principal and returns it with its expiry.
func (m *Manager) Issue(principal *model.Principal) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	registered := jwt.Claims{
		Issuer:   Issuer,
		Subject:  principal.Email,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(expiresAt),
	}
	private := privateClaims{
		UserID: principal.UserID,
		Roles:  principal.Roles,
	}

	raw, err := jwt.Signed(m.signer).Claims(registered).Claims(private).CompactSerialize()
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return raw, expiresAt, nil
}

// Validate verifies the signature, algorithm, issuer and expiry of raw and
// returns the principal it carries.
func (m *Manager) Validate(raw string) (*model.Principal, error) {
	parsed, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	if len(parsed.Headers) != 1 || parsed.Headers[0].Algorithm != string(jose.HS256) {
		return nil, errors.Wrap(ErrInvalidToken, "unexpected signing algorithm")
	}

	var (
		registered jwt.Claims
		private    privateClaims
	)
	if err := parsed.Claims(m.key, &registered, &private); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	err = registered.ValidateWithLeeway(jwt.Expected{Issuer: Issuer, Time: m.now()}, 0)
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	if registered.Subject == "" || private.UserID == 0 {
		return nil, errors.Wrap(ErrInvalidToken, "missing subject")
	}

	return &model.Principal{
		UserID: private.UserID,
		Email:  registered.Subject,
		Roles:  private.Roles,
	}, nil
}
