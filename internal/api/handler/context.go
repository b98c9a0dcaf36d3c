package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartwater/monitoring-api/internal/api/middleware"
	"github.com/smartwater/monitoring-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A missing
// identity means the middleware did not run on this route; treat it as an
// authentication failure rather than panicking.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || identity.Username == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
