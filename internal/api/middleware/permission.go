package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smartwater/monitoring-api/internal/api/metrics"
	"github.com/smartwater/monitoring-api/internal/core/domain"
)

// permissionError is the 403 body. Naming the required permission and the
// caller's role is safe: the role is already in the caller's own token.
type permissionError struct {
	Error              string `json:"error"`
	Message            string `json:"message"`
	RequiredPermission string `json:"required_permission"`
	UserRole           string `json:"user_role"`
}

// Permission enforces that the authenticated caller's role grants the given
// permission. Must run after Auth. Unknown roles fail closed.
func Permission(grants domain.Grants, required domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get(IdentityKey).(domain.Identity)
			if !grants.Allows(identity.Role, required) {
				metrics.AuthRejectionsTotal.WithLabelValues("insufficient_permission").Inc()
				return c.JSON(http.StatusForbidden, permissionError{
					Error:              "insufficient_permission",
					Message:            "requires " + string(required) + " permission",
					RequiredPermission: string(required),
					UserRole:           identity.Role,
				})
			}
			return next(c)
		}
	}
}
