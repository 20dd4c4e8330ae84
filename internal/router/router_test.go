package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/gym-sessions/internal/config"
	"github.com/deppfellow/gym-sessions/internal/handler"
	"github.com/deppfellow/gym-sessions/internal/middleware"
	"github.com/deppfellow/gym-sessions/internal/model"
	"github.com/deppfellow/gym-sessions/internal/service"
	"github.com/deppfellow/gym-sessions/internal/testutil"
	"github.com/labstack/echo/v4"
)

const (
	adminEmail    = "yoga@studio.com"
	adminPassword = "test!1234"
)

type app struct {
	echo  *echo.Echo
	store *testutil.MemoryStore
}

func newApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()

	if cfg == nil {
		cfg = testutil.NewConfig()
	}
	srv := testutil.NewServer(cfg)
	store := testutil.NewMemoryStore()
	repos := store.Repositories()

	services, err := service.NewService(srv, repos)
	if err != nil {
		t.Fatalf("create services: %v", err)
	}
	if _, err := services.Auth.EnsureAdmin(context.Background(), adminEmail, adminPassword); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	handlers := handler.NewHandlers(srv, services, repos)
	middlewares := middleware.NewMiddlewares(srv, services.Auth)

	return &app{
		echo:  NewRouter(srv, handlers, middlewares),
		store: store,
	}
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *app) login(t *testing.T, email, password string) handler.JWTResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	expectStatus(t, rec, http.StatusOK)

	var res handler.JWTResponse
	decode(t, rec, &res)
	return res
}

func (a *app) register(t *testing.T, email string) handler.JWTResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"firstName": "Student",
		"lastName":  "Member",
		"password":  "secret123",
	})
	expectStatus(t, rec, http.StatusOK)

	return a.login(t, email, "secret123")
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func sessionBody(name string, teacherID *int64, users ...int64) map[string]any {
	return map[string]any{
		"name":        name,
		"date":        "2026-11-02T09:30:00Z",
		"teacher_id":  teacherID,
		"description": "Morning flow",
		"users":       users,
	}
}

func TestAPI_RequiresToken(t *testing.T) {
	a := newApp(t, nil)

	for _, path := range []string{"/api/session", "/api/teacher", "/api/user/1"} {
		rec := a.do(t, http.MethodGet, path, "", nil)
		expectStatus(t, rec, http.StatusUnauthorized)
	}

	rec := a.do(t, http.MethodGet, "/api/session", "not-a-jwt", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestAPI_AdminRoutesForbiddenForUsers(t *testing.T) {
	a := newApp(t, nil)
	user := a.register(t, "student@studio.com")

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/session", sessionBody("Yoga", nil)},
		{http.MethodPut, "/api/session/1", sessionBody("Yoga", nil)},
		{http.MethodPost, "/api/teacher", map[string]string{"firstName": "Ann", "lastName": "Lee"}},
		{http.MethodPut, "/api/teacher/1", map[string]string{"firstName": "Ann", "lastName": "Lee"}},
		{http.MethodDelete, "/api/teacher/1", nil},
	}

	for _, tc := range cases {
		rec := a.do(t, tc.method, tc.path, user.Token, tc.body)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: status = %d, want 403", tc.method, tc.path, rec.Code)
		}
	}
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	a := newApp(t, nil)

	body := map[string]string{
		"email":     "Student@Studio.com",
		"firstName": "Student",
		"lastName":  "Member",
		"password":  "secret123",
	}

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", body)
	expectStatus(t, rec, http.StatusOK)

	var msg handler.MessageResponse
	decode(t, rec, &msg)
	if msg.Message != "User registered successfully!" {
		t.Errorf("message = %q", msg.Message)
	}

	rec = a.do(t, http.MethodPost, "/api/auth/register", "", body)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "student@studio.com",
		"password": "wrong-password",
	})
	expectStatus(t, rec, http.StatusUnauthorized)

	res := a.login(t, "student@studio.com", "secret123")
	if res.Type != "Bearer" || res.Token == "" {
		t.Errorf("unexpected token response: %+v", res)
	}
	if res.Username != "student@studio.com" || res.FirstName != "Student" || res.Admin {
		t.Errorf("unexpected user fields: %+v", res)
	}

	admin := a.login(t, adminEmail, adminPassword)
	if !admin.Admin {
		t.Error("bootstrap admin should log in as admin")
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "not-an-email",
		"firstName": "Al",
		"lastName":  "Member",
		"password":  "123",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	decode(t, rec, &body)

	fields := map[string]bool{}
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	for _, want := range []string{"email", "firstName", "password"} {
		if !fields[want] {
			t.Errorf("expected a field error for %q, got %+v", want, body.Errors)
		}
	}
}

func TestAuth_RegisterPasswordOverBcryptLimit(t *testing.T) {
	a := newApp(t, nil)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "long@studio.com",
		"firstName": "Student",
		"lastName":  "Member",
		"password":  strings.Repeat("é", 40),
	})
	expectStatus(t, rec, http.StatusBadRequest)

	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	decode(t, rec, &body)
	if len(body.Errors) != 1 || body.Errors[0].Field != "password" {
		t.Errorf("expected a single password error, got %+v", body.Errors)
	}

	exists, err := a.store.Repositories().User.ExistsByEmail(context.Background(), "long@studio.com")
	if err != nil || exists {
		t.Errorf("rejected registration must not store a user: exists=%v err=%v", exists, err)
	}
}

func TestAPI_RolesFollowStoredAccount(t *testing.T) {
	a := newApp(t, nil)
	ctx := context.Background()
	users := a.store.Repositories().User

	a.register(t, "coach@studio.com")
	coach, err := users.FindByEmail(ctx, "coach@studio.com")
	if err != nil {
		t.Fatal(err)
	}
	coach.Admin = true
	if _, err := users.Save(ctx, coach); err != nil {
		t.Fatal(err)
	}
	token := a.login(t, "coach@studio.com", "secret123").Token

	teacher := map[string]string{"firstName": "Ann", "lastName": "Lee"}
	expectStatus(t, a.do(t, http.MethodPost, "/api/teacher", token, teacher), http.StatusOK)

	coach.Admin = false
	if _, err := users.Save(ctx, coach); err != nil {
		t.Fatal(err)
	}
	expectStatus(t, a.do(t, http.MethodPost, "/api/teacher", token, teacher), http.StatusForbidden)

	expectStatus(t, a.do(t, http.MethodDelete, fmt.Sprintf("/api/user/%d", coach.ID), token, nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodPost, "/api/teacher", token, teacher), http.StatusUnauthorized)
}

func TestSessions_Lifecycle(t *testing.T) {
	a := newApp(t, nil)
	admin := a.login(t, adminEmail, adminPassword)
	student := a.register(t, "student@studio.com")

	rec := a.do(t, http.MethodPost, "/api/teacher", admin.Token, map[string]string{"firstName": "Margot", "lastName": "Delahaye"})
	expectStatus(t, rec, http.StatusOK)
	var teacher model.TeacherDTO
	decode(t, rec, &teacher)

	rec = a.do(t, http.MethodPost, "/api/session/", admin.Token, sessionBody("Morning yoga", &teacher.ID, admin.ID))
	expectStatus(t, rec, http.StatusOK)
	var created model.SessionDTO
	decode(t, rec, &created)

	if created.ID == 0 || created.TeacherID == nil || *created.TeacherID != teacher.ID {
		t.Fatalf("unexpected created session: %+v", created)
	}
	if len(created.Users) != 1 || created.Users[0] != admin.ID {
		t.Errorf("users = %v, want [%d]", created.Users, admin.ID)
	}

	path := fmt.Sprintf("/api/session/%d", created.ID)

	rec = a.do(t, http.MethodGet, path, student.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	var fetched model.SessionDTO
	decode(t, rec, &fetched)
	if fetched.Name != "Morning yoga" || !fetched.Date.Equal(created.Date) {
		t.Errorf("fetched session differs: %+v", fetched)
	}

	update := sessionBody("Evening yoga", nil)
	update["id"] = created.ID + 100
	rec = a.do(t, http.MethodPut, path, admin.Token, update)
	expectStatus(t, rec, http.StatusOK)
	var updated model.SessionDTO
	decode(t, rec, &updated)
	if updated.ID != created.ID || updated.Name != "Evening yoga" || updated.TeacherID != nil {
		t.Errorf("update should keep the path id and overwrite fields: %+v", updated)
	}

	participate := fmt.Sprintf("%s/participate/%d", path, student.ID)
	expectStatus(t, a.do(t, http.MethodPost, participate, student.Token, nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodPost, participate, student.Token, nil), http.StatusBadRequest)
	expectStatus(t, a.do(t, http.MethodDelete, participate, student.Token, nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodDelete, participate, student.Token, nil), http.StatusBadRequest)

	expectStatus(t, a.do(t, http.MethodDelete, path, admin.Token, nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodGet, path, admin.Token, nil), http.StatusNotFound)
	expectStatus(t, a.do(t, http.MethodDelete, path, admin.Token, nil), http.StatusNotFound)
}

func TestSessions_List(t *testing.T) {
	a := newApp(t, nil)
	admin := a.login(t, adminEmail, adminPassword)
	student := a.register(t, "student@studio.com")

	rec := a.do(t, http.MethodGet, "/api/session", admin.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("empty list body = %q, want []", got)
	}

	rec = a.do(t, http.MethodPost, "/api/teacher", admin.Token, map[string]string{"firstName": "Margot", "lastName": "Delahaye"})
	expectStatus(t, rec, http.StatusOK)
	var teacher model.TeacherDTO
	decode(t, rec, &teacher)

	want := map[string]model.SessionDTO{}
	inputs := []map[string]any{
		sessionBody("Class A", &teacher.ID, admin.ID, student.ID),
		sessionBody("Class B", nil, student.ID),
		sessionBody("Class C", &teacher.ID),
	}
	for i, body := range inputs {
		body["description"] = fmt.Sprintf("Description %d", i)
		rec := a.do(t, http.MethodPost, "/api/session", admin.Token, body)
		expectStatus(t, rec, http.StatusOK)
		var created model.SessionDTO
		decode(t, rec, &created)
		want[created.Name] = created
	}

	rec = a.do(t, http.MethodGet, "/api/session/", student.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	var sessions []model.SessionDTO
	decode(t, rec, &sessions)
	if len(sessions) != len(want) {
		t.Fatalf("listed %d sessions, want %d", len(sessions), len(want))
	}

	for _, got := range sessions {
		exp, ok := want[got.Name]
		if !ok {
			t.Errorf("unexpected session %q", got.Name)
			continue
		}
		if got.ID != exp.ID || got.Description != exp.Description || !got.Date.Equal(exp.Date) {
			t.Errorf("%s: got %+v, want %+v", got.Name, got, exp)
		}
		if !sameTeacher(got.TeacherID, exp.TeacherID) {
			t.Errorf("%s: teacher_id = %v, want %v", got.Name, got.TeacherID, exp.TeacherID)
		}
		if !sameIDs(got.Users, exp.Users) {
			t.Errorf("%s: users = %v, want %v", got.Name, got.Users, exp.Users)
		}
	}

	classA := want["Class A"]
	if !sameIDs(classA.Users, []int64{admin.ID, student.ID}) || classA.TeacherID == nil || *classA.TeacherID != teacher.ID {
		t.Errorf("created session lost its references: %+v", classA)
	}
}

func sameTeacher(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int64]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
		if seen[id] < 0 {
			return false
		}
	}
	return true
}

func TestSessions_InvalidRequests(t *testing.T) {
	a := newApp(t, nil)
	admin := a.login(t, adminEmail, adminPassword)

	expectStatus(t, a.do(t, http.MethodGet, "/api/session/abc", admin.Token, nil), http.StatusBadRequest)
	expectStatus(t, a.do(t, http.MethodGet, "/api/session/999", admin.Token, nil), http.StatusNotFound)
	expectStatus(t, a.do(t, http.MethodPut, "/api/session/999", admin.Token, sessionBody("Ghost", nil)), http.StatusNotFound)
	expectStatus(t, a.do(t, http.MethodPost, "/api/session/999/participate/1", admin.Token, nil), http.StatusNotFound)

	missingDate := sessionBody("No date", nil)
	delete(missingDate, "date")
	expectStatus(t, a.do(t, http.MethodPost, "/api/session", admin.Token, missingDate), http.StatusBadRequest)

	long := sessionBody(string(bytes.Repeat([]byte("x"), 51)), nil)
	expectStatus(t, a.do(t, http.MethodPost, "/api/session", admin.Token, long), http.StatusBadRequest)
}

func TestSessions_PathIDs(t *testing.T) {
	a := newApp(t, nil)
	admin := a.login(t, adminEmail, adminPassword)

	for _, id := range []string{"0", "-1"} {
		path := "/api/session/" + id
		expectStatus(t, a.do(t, http.MethodGet, path, admin.Token, nil), http.StatusNotFound)
		expectStatus(t, a.do(t, http.MethodPut, path, admin.Token, sessionBody("Ghost", nil)), http.StatusNotFound)
		expectStatus(t, a.do(t, http.MethodDelete, path, admin.Token, nil), http.StatusNotFound)
		expectStatus(t, a.do(t, http.MethodPost, path+"/participate/1", admin.Token, nil), http.StatusNotFound)
		expectStatus(t, a.do(t, http.MethodGet, "/api/teacher/"+id, admin.Token, nil), http.StatusNotFound)
		expectStatus(t, a.do(t, http.MethodGet, "/api/user/"+id, admin.Token, nil), http.StatusNotFound)
	}

	expectStatus(t, a.do(t, http.MethodGet, "/api/session/99999999999999999999", admin.Token, nil), http.StatusBadRequest)
	expectStatus(t, a.do(t, http.MethodPost, "/api/session/1/participate/abc", admin.Token, nil), http.StatusBadRequest)

	rec := a.do(t, http.MethodGet, "/api/session", admin.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("requests on unknown ids must not create sessions: %s", got)
	}
}

func TestSessions_UserRequestsOnPathIDs(t *testing.T) {
	a := newApp(t, nil)
	admin := a.login(t, adminEmail, adminPassword)
	user := a.register(t, "student@studio.com")

	expectStatus(t, a.do(t, http.MethodDelete, "/api/session/999999999", user.Token, nil), http.StatusNotFound)
	expectStatus(t, a.do(t, http.MethodDelete, "/api/session/invalid-id", user.Token, nil), http.StatusBadRequest)
	expectStatus(t, a.do(t, http.MethodPut, "/api/session/invalid-id", user.Token, sessionBody("Yoga", nil)), http.StatusBadRequest)
	expectStatus(t, a.do(t, http.MethodPut, "/api/session/1", user.Token, sessionBody("Yoga", nil)), http.StatusForbidden)

	rec := a.do(t, http.MethodPost, "/api/session", admin.Token, sessionBody("Yoga", nil))
	expectStatus(t, rec, http.StatusOK)
	var created model.SessionDTO
	decode(t, rec, &created)

	path := fmt.Sprintf("/api/session/%d", created.ID)
	expectStatus(t, a.do(t, http.MethodDelete, path, user.Token, nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodGet, path, admin.Token, nil), http.StatusNotFound)
}

func TestSessions_StrictReferences(t *testing.T) {
	cfg := testutil.NewConfig()
	cfg.Domain.StrictReferences = true
	a := newApp(t, cfg)
	admin := a.login(t, adminEmail, adminPassword)

	unknown := int64(42)
	expectStatus(t, a.do(t, http.MethodPost, "/api/session", admin.Token, sessionBody("Yoga", &unknown)), http.StatusBadRequest)

	lenient := newApp(t, nil)
	admin = lenient.login(t, adminEmail, adminPassword)
	rec := lenient.do(t, http.MethodPost, "/api/session", admin.Token, sessionBody("Yoga", &unknown, 77))
	expectStatus(t, rec, http.StatusOK)

	var created model.SessionDTO
	decode(t, rec, &created)
	if created.TeacherID != nil || len(created.Users) != 0 {
		t.Errorf("unknown references should be dropped: %+v", created)
	}
}

func TestTeachers_CRUD(t *testing.T) {
	a := newApp(t, nil)
	admin := a.login(t, adminEmail, adminPassword)

	rec := a.do(t, http.MethodPost, "/api/teacher", admin.Token, map[string]string{"firstName": "Margot", "lastName": "Delahaye"})
	expectStatus(t, rec, http.StatusOK)
	var teacher model.TeacherDTO
	decode(t, rec, &teacher)

	path := fmt.Sprintf("/api/teacher/%d", teacher.ID)

	rec = a.do(t, http.MethodPut, path, admin.Token, map[string]string{"firstName": "Helene", "lastName": "Thiercelin"})
	expectStatus(t, rec, http.StatusOK)
	var updated model.TeacherDTO
	decode(t, rec, &updated)
	if updated.ID != teacher.ID || updated.FirstName != "Helene" {
		t.Errorf("unexpected updated teacher: %+v", updated)
	}

	rec = a.do(t, http.MethodGet, "/api/teacher", admin.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	var teachers []model.TeacherDTO
	decode(t, rec, &teachers)
	if len(teachers) != 1 {
		t.Errorf("listed %d teachers, want 1", len(teachers))
	}

	expectStatus(t, a.do(t, http.MethodDelete, path, admin.Token, nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodGet, path, admin.Token, nil), http.StatusNotFound)
	expectStatus(t, a.do(t, http.MethodGet, "/api/teacher/x", admin.Token, nil), http.StatusBadRequest)
}

func TestUsers_FindAndDelete(t *testing.T) {
	a := newApp(t, nil)
	admin := a.login(t, adminEmail, adminPassword)
	student := a.register(t, "student@studio.com")

	rec := a.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", student.ID), admin.Token, nil)
	expectStatus(t, rec, http.StatusOK)
	var user model.UserDTO
	decode(t, rec, &user)
	if user.Email != "student@studio.com" {
		t.Errorf("email = %q", user.Email)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Error("user representation must not expose the password")
	}

	other := fmt.Sprintf("/api/user/%d", admin.ID)
	expectStatus(t, a.do(t, http.MethodDelete, other, student.Token, nil), http.StatusForbidden)

	own := fmt.Sprintf("/api/user/%d", student.ID)
	expectStatus(t, a.do(t, http.MethodDelete, own, student.Token, nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodGet, own, admin.Token, nil), http.StatusNotFound)
	expectStatus(t, a.do(t, http.MethodGet, "/api/user/999", admin.Token, nil), http.StatusNotFound)
}

func TestAuth_RateLimited(t *testing.T) {
	cfg := testutil.NewConfig()
	cfg.Server.AuthRateLimit = 1
	a := newApp(t, cfg)

	body := map[string]string{"email": adminEmail, "password": "wrong"}
	expectStatus(t, a.do(t, http.MethodPost, "/api/auth/login", "", body), http.StatusUnauthorized)
	expectStatus(t, a.do(t, http.MethodPost, "/api/auth/login", "", body), http.StatusTooManyRequests)
}

func TestSystemRoutes(t *testing.T) {
	a := newApp(t, nil)

	expectStatus(t, a.do(t, http.MethodGet, "/status", "", nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodGet, "/docs", "", nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodGet, "/static/openapi.json", "", nil), http.StatusOK)
	expectStatus(t, a.do(t, http.MethodGet, "/nowhere", "", nil), http.StatusNotFound)
}
