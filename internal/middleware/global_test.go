package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/gym-sessions/internal/errs"
	"github.com/deppfellow/gym-sessions/internal/testutil"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func runErrorHandler(t *testing.T, err error) (int, errs.HTTPError) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewGlobalMiddlewares(testutil.NewServer(nil)).GlobalErrorHandler(err, c)

	var body errs.HTTPError
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), decodeErr)
	}
	return rec.Code, body
}

func TestGlobalErrorHandler(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"http error", errs.NewForbiddenError("Access denied", false), http.StatusForbidden, "FORBIDDEN"},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"no rows", errors.Wrap(pgx.ErrNoRows, "find session"), http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := runErrorHandler(t, tc.err)

			if status != tc.wantCode || body.Status != tc.wantCode {
				t.Errorf("status = %d (body %d), want %d", status, body.Status, tc.wantCode)
			}
			if body.Code != tc.wantBody {
				t.Errorf("code = %q, want %q", body.Code, tc.wantBody)
			}
		})
	}
}

func TestGlobalErrorHandler_HidesInternalMessage(t *testing.T) {
	_, body := runErrorHandler(t, errors.New("password=hunter2 leaked"))
	if body.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("internal error message leaked: %q", body.Message)
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := RequestID()(ok)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetRequestID(c) != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("incoming request id not reused: %q", GetRequestID(c))
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if err := RequestID()(ok)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetRequestID(c) == "" {
		t.Error("expected a generated request id")
	}
}
