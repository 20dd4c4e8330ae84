package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/deppfellow/gym-sessions/internal/errs"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

const (
	// PrincipalKey holds the authenticated *model.Principal in the Echo context.
	PrincipalKey = "principal"

	bearerScheme = "Bearer"
)

// Authenticator turns a raw bearer token into the identity it was issued
// for, and re-reads that identity from the store when a route needs roles.
type Authenticator interface {
	ValidateToken(raw string) (*model.Principal, error)
	CurrentPrincipal(ctx context.Context, userID int64) (*model.Principal, error)
}

// Route identifies a registered route by method and Echo path pattern,
// e.g. {"DELETE", "/api/session/:id"}.
type Route struct {
	Method string
	Path   string
}

// Policy lists the roles required per route. Routes missing from the policy
// only require an authenticated caller.
type Policy map[Route][]model.Role

// Required returns the roles needed to call method on path.
func (p Policy) Required(method, path string) []model.Role {
	return p[Route{Method: method, Path: path}]
}

// AuthMiddleware authenticates bearer tokens and enforces a route Policy.
type AuthMiddleware struct {
	server *server.Server
	tokens Authenticator
}

func NewAuthMiddleware(s *server.Server, tokens Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		tokens: tokens,
	}
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// with 401. On success the principal, user id and roles are stored in the
// Echo context and the request logger gains a user_id field.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request())
		if !ok {
			GetLogger(c).Debug().Msg("missing or malformed authorization header")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		principal, err := auth.tokens.ValidateToken(raw)
		if err != nil {
			GetLogger(c).Warn().Err(err).Msg("rejected bearer token")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		userID := strconv.FormatInt(principal.UserID, 10)

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, joinRoles(principal.Roles))

		l := GetLogger(c).With().Str("user_id", userID).Logger()
		setLogger(c, &l)

		if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
			txn.AddAttribute("user.id", userID)
		}

		return next(c)
	}
}

// Authorize returns middleware that answers 403 when the principal lacks
// every role the policy requires for the matched route. It must run after
// RequireAuth.
func (auth *AuthMiddleware) Authorize(policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := GetPrincipal(c)
			if principal == nil {
				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			required := policy.Required(c.Request().Method, c.Path())
			if len(required) > 0 {
				// Token roles are a snapshot; restricted routes use the stored account.
				current, err := auth.tokens.CurrentPrincipal(c.Request().Context(), principal.UserID)
				if errors.Is(err, model.ErrUserNotFound) {
					GetLogger(c).Warn().Int64("user_id", principal.UserID).Msg("token owner no longer exists")
					return errs.NewUnauthorizedError("Unauthorized", false)
				}
				if err != nil {
					return err
				}
				principal = current
				c.Set(PrincipalKey, principal)
				c.Set(UserRoleKey, joinRoles(principal.Roles))
			}

			if !principal.HasAnyRole(required...) {
				GetLogger(c).Warn().
					Str("route", c.Path()).
					Str("roles", joinRoles(principal.Roles)).
					Msg("access denied")
				return errs.NewForbiddenError("Access denied", false)
			}

			return next(c)
		}
	}
}

// NumericParams answers 400 when one of the named path parameters of the
// matched route is not a base 10 int64. Parameters the route does not
// declare are skipped.
func NumericParams(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, name := range names {
				raw := c.Param(name)
				if raw == "" {
					continue
				}
				if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
					return errs.NewBadRequestError(
						fmt.Sprintf("Invalid path parameter %q", name),
						false,
						nil,
						[]errs.FieldError{{Field: name, Error: "must be a whole number"}},
						nil,
					)
				}
			}
			return next(c)
		}
	}
}

// GetPrincipal returns the authenticated principal, or nil when RequireAuth
// did not run.
func GetPrincipal(c echo.Context) *model.Principal {
	if principal, ok := c.Get(PrincipalKey).(*model.Principal); ok {
		return principal
	}
	return nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func joinRoles(roles []model.Role) string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return strings.Join(names, ",")
}
