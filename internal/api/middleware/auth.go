package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartwater/monitoring-api/internal/api/metrics"
	"github.com/smartwater/monitoring-api/internal/token"
)

// IdentityKey is the echo context key under which Auth stores the verified
// identity snapshot.
const IdentityKey = "identity"

// Auth validates the bearer token and injects the embedded identity into the
// request context. Only access tokens are accepted: presenting a refresh token
// to a protected route is rejected.
func Auth(tokens *token.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				if errors.Is(err, token.ErrTokenExpired) {
					metrics.AuthRejectionsTotal.WithLabelValues("token_expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if claims.Type != token.TypeAccess {
				metrics.AuthRejectionsTotal.WithLabelValues("wrong_token_type").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "wrong token type")
			}

			c.Set(IdentityKey, claims.Identity())

			return next(c)
		}
	}
}
