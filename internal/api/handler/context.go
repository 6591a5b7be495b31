package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-manager/internal/api/middleware"
	"github.com/99minutos/task-manager/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fails fast when a route was mounted without it.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.ID == "" || !identity.Role.Valid() {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

// bindAndValidate decodes the request into req and runs the struct validator.
// Both failures are reported as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
