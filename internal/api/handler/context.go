package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/staffboard/todo-system/internal/api/middleware"
	"github.com/staffboard/todo-system/internal/core/domain"
)

// ctxPrincipal extracts the identity injected by the session or bearer
// middleware. An empty username or role means the middleware did not run.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	username, _ := c.Get(middleware.KeyUsername).(string)
	role, _ := c.Get(middleware.KeyRole).(domain.Role)
	if username == "" || role == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Principal{Username: username, Role: role}, nil
}

func idParam(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(n), nil
}

// optionalID parses an optional numeric query parameter.
func optionalID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	id := uint(n)
	return &id, nil
}

func optionalBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &b, nil
}
