package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys set by the authentication middlewares.
const (
	KeyUsername  = "username"
	KeyRole      = "role"
	KeyExpiresAt = "expires_at"
)

// WantsHTML reports whether the client prefers a page over JSON, in which case
// authentication failures become redirects to the login page.
func WantsHTML(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMETextHTML)
}
