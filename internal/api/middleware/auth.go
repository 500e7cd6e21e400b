package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/staffboard/todo-system/internal/pkg/token"
)

// Bearer validates an "Authorization: Bearer <token>" header with the shared
// key and injects the token's identity into the context.
func Bearer(key []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := token.Validate(strings.TrimSpace(parts[1]), key)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(KeyUsername, claims.Subject)
			c.Set(KeyRole, claims.Role)
			c.Set(KeyExpiresAt, claims.ExpiresAt)

			return next(c)
		}
	}
}
