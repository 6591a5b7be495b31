package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-manager/internal/core/domain"
)

func newRBACContext(identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		SetIdentity(c, *identity)
	}
	return c, rec
}

func TestRBAC_Allows(t *testing.T) {
	c, rec := newRBACContext(&domain.Identity{ID: "u1", Role: domain.RoleAdmin})

	called := false
	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_NoRolesAllowsAnyIdentity(t *testing.T) {
	c, _ := newRBACContext(&domain.Identity{ID: "u1", Role: domain.RoleClient})

	called := false
	if err := RBAC()(func(c echo.Context) error {
		called = true
		return nil
	})(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_Forbidden(t *testing.T) {
	c, _ := newRBACContext(&domain.Identity{ID: "u1", Role: domain.RoleClient})

	err := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_MissingIdentity(t *testing.T) {
	c, _ := newRBACContext(nil)

	err := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	if err := domain.Authorize(domain.RoleClient); err != nil {
		t.Fatalf("empty requirement must allow, got %v", err)
	}
	if err := domain.Authorize(domain.RoleAdmin, domain.RoleAdmin, domain.RoleClient); err != nil {
		t.Fatalf("listed role must allow, got %v", err)
	}
	if err := domain.Authorize(domain.RoleClient, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
