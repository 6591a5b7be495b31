package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-manager/internal/core/domain"
)

// RBAC enforces role-based access control. With no roles any authenticated
// identity passes.
func RBAC(required ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if err := domain.Authorize(identity.Role, required...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
