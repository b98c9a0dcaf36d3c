package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "not_found"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user_exists"},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest, "invalid_request"},
		{"self deletion", domain.ErrSelfDeletionForbidden, http.StatusBadRequest, "self_deletion_forbidden"},
		{"protected account", domain.ErrProtectedAccountForbidden, http.StatusBadRequest, "protected_account_forbidden"},
		{"measurement not found", domain.ErrMeasurementNotFound, http.StatusNotFound, "not_found"},
		{"no fields to update", domain.ErrNoFieldsToUpdate, http.StatusBadRequest, "invalid_request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := runErrorHandler(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if body.Error != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, body.Error)
			}
			if body.Message == "" {
				t.Fatalf("expected a message")
			}
		})
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := runErrorHandler(t, echo.NewHTTPError(http.StatusUnauthorized, "token expired"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if body.Error != "unauthorized" || body.Message != "token expired" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	code, body := runErrorHandler(t, errors.New("mongo: socket closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal_error" {
		t.Fatalf("expected internal_error, got %q", body.Error)
	}
	// The underlying cause must not leak to the client.
	if body.Message != "internal server error" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}
