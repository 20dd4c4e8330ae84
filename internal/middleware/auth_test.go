package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/gym-sessions/internal/errs"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type stubAuthenticator struct {
	tokens   map[string]*model.Principal
	accounts map[int64]*model.Principal
}

func (s stubAuthenticator) ValidateToken(raw string) (*model.Principal, error) {
	if p, ok := s.tokens[raw]; ok {
		return p, nil
	}
	return nil, errors.New("invalid token")
}

func (s stubAuthenticator) CurrentPrincipal(_ context.Context, userID int64) (*model.Principal, error) {
	if p, ok := s.accounts[userID]; ok {
		return p, nil
	}
	return nil, model.ErrUserNotFound
}

var (
	adminPrincipal = &model.Principal{UserID: 1, Email: "yoga@studio.com", Roles: []model.Role{model.RoleUser, model.RoleAdmin}}
	userPrincipal  = &model.Principal{UserID: 2, Email: "student@studio.com", Roles: []model.Role{model.RoleUser}}

	// Tokens issued while these accounts were admins.
	demotedPrincipal = &model.Principal{UserID: 3, Email: "former@studio.com", Roles: []model.Role{model.RoleUser, model.RoleAdmin}}
	deletedPrincipal = &model.Principal{UserID: 4, Email: "gone@studio.com", Roles: []model.Role{model.RoleUser, model.RoleAdmin}}
)

func newAuth() *AuthMiddleware {
	return NewAuthMiddleware(testutil.NewServer(nil), stubAuthenticator{
		tokens: map[string]*model.Principal{
			"admin-token": adminPrincipal,
			"user-token":  userPrincipal,
		},
		accounts: map[int64]*model.Principal{
			1: adminPrincipal,
			2: userPrincipal,
			3: {UserID: 3, Email: "former@studio.com", Roles: []model.Role{model.RoleUser}},
		},
	})
}

func newAuthContext(method, path, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return http.StatusOK
	}
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %T (%v)", err, err)
	}
	return httpErr.Status
}

func ok(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireAuth(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer forged", http.StatusUnauthorized},
		{"valid token", "Bearer user-token", http.StatusOK},
		{"lowercase scheme", "bearer user-token", http.StatusOK},
	}

	auth := newAuth()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newAuthContext(http.MethodGet, "/api/session", tc.header)

			got := statusOf(t, auth.RequireAuth(ok)(c))
			if got != tc.want {
				t.Errorf("status = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRequireAuth_StoresIdentity(t *testing.T) {
	c, _ := newAuthContext(http.MethodGet, "/api/session", "Bearer admin-token")

	var seen *model.Principal
	err := newAuth().RequireAuth(func(c echo.Context) error {
		seen = GetPrincipal(c)
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seen != adminPrincipal {
		t.Errorf("principal not stored in context: %+v", seen)
	}
	if GetUserID(c) != "1" {
		t.Errorf("user id = %q, want 1", GetUserID(c))
	}
	if c.Get(UserRoleKey) != "USER,ADMIN" {
		t.Errorf("roles = %v", c.Get(UserRoleKey))
	}
}

func TestAuthorize(t *testing.T) {
	policy := Policy{
		{Method: http.MethodDelete, Path: "/api/session/:id"}: {model.RoleAdmin},
	}

	cases := []struct {
		name      string
		principal *model.Principal
		method    string
		path      string
		want      int
	}{
		{"admin on admin route", adminPrincipal, http.MethodDelete, "/api/session/:id", http.StatusOK},
		{"user on admin route", userPrincipal, http.MethodDelete, "/api/session/:id", http.StatusForbidden},
		{"user on open route", userPrincipal, http.MethodGet, "/api/session/:id", http.StatusOK},
		{"anonymous", nil, http.MethodGet, "/api/session/:id", http.StatusUnauthorized},
		{"demoted admin on admin route", demotedPrincipal, http.MethodDelete, "/api/session/:id", http.StatusForbidden},
		{"deleted admin on admin route", deletedPrincipal, http.MethodDelete, "/api/session/:id", http.StatusUnauthorized},
		{"deleted user on open route", deletedPrincipal, http.MethodGet, "/api/session/:id", http.StatusOK},
	}

	auth := newAuth()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newAuthContext(tc.method, tc.path, "")
			if tc.principal != nil {
				c.Set(PrincipalKey, tc.principal)
			}

			got := statusOf(t, auth.Authorize(policy)(ok)(c))
			if got != tc.want {
				t.Errorf("status = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNumericParams(t *testing.T) {
	cases := []struct {
		name   string
		names  []string
		values []string
		want   int
	}{
		{"numeric id", []string{"id"}, []string{"12"}, http.StatusOK},
		{"zero and negative", []string{"id", "userId"}, []string{"0", "-1"}, http.StatusOK},
		{"word", []string{"id"}, []string{"invalid-id"}, http.StatusBadRequest},
		{"overflow", []string{"id"}, []string{"99999999999999999999"}, http.StatusBadRequest},
		{"bad user id", []string{"id", "userId"}, []string{"1", "x"}, http.StatusBadRequest},
		{"no params", nil, nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newAuthContext(http.MethodGet, "/api/session/:id", "")
			c.SetParamNames(tc.names...)
			c.SetParamValues(tc.values...)

			got := statusOf(t, NumericParams("id", "userId")(ok)(c))
			if got != tc.want {
				t.Errorf("status = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestGetPrincipal_Missing(t *testing.T) {
	c, _ := newAuthContext(http.MethodGet, "/status", "")
	if GetPrincipal(c) != nil {
		t.Error("expected nil principal without RequireAuth")
	}
	if GetLogger(c) == nil {
		t.Error("GetLogger must never return nil")
	}
}
