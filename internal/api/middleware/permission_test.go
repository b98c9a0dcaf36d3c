package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smartwater/monitoring-api/internal/core/domain"
)

func permissionContext(e *echo.Echo, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(IdentityKey, *identity)
	}
	return c, rec
}

func TestPermissionMiddleware_Allowed(t *testing.T) {
	e := echo.New()
	identity := domain.Identity{Username: "alice", Role: domain.RoleAdmin}
	c, rec := permissionContext(e, &identity)

	called := false
	mw := Permission(domain.DefaultGrants(), domain.PermissionManageUsers)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPermissionMiddleware_Forbidden(t *testing.T) {
	e := echo.New()
	identity := domain.Identity{Username: "bob", Role: domain.RoleUser}
	c, rec := permissionContext(e, &identity)

	mw := Permission(domain.DefaultGrants(), domain.PermissionWrite)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var body permissionError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "insufficient_permission" {
		t.Fatalf("unexpected error kind: %q", body.Error)
	}
	if body.RequiredPermission != "write" {
		t.Fatalf("unexpected required_permission: %q", body.RequiredPermission)
	}
	if body.UserRole != domain.RoleUser {
		t.Fatalf("unexpected user_role: %q", body.UserRole)
	}
}

func TestPermissionMiddleware_MissingIdentity(t *testing.T) {
	e := echo.New()
	c, rec := permissionContext(e, nil)

	mw := Permission(domain.DefaultGrants(), domain.PermissionRead)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	// No identity in context fails closed.
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
