package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staffboard/todo-system/internal/api/middleware"
	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
	"github.com/staffboard/todo-system/internal/pkg/session"
)

// AccountHandler establishes and ends cookie sessions for the task app.
type AccountHandler struct {
	login    ports.LoginService
	sessions *session.Manager
	now      func() time.Time
	log      zerolog.Logger
}

func NewAccountHandler(login ports.LoginService, sessions *session.Manager, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{login: login, sessions: sessions, now: time.Now, log: log}
}

type accountLoginRequest struct {
	Username  string `json:"username" form:"username" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required"`
	ReturnURL string `json:"returnUrl" form:"returnUrl"`
}

type sessionResponse struct {
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// LoginPage tells the client whether a login is needed.
func (h *AccountHandler) LoginPage(c echo.Context) error {
	if _, err := ctxPrincipal(c); err == nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "login required"})
}

// Login exchanges credentials for a session cookie.
func (h *AccountHandler) Login(c echo.Context) error {
	var req accountLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	s, err := h.login.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": domain.ErrInvalidCredentials.Error()})
		case errors.Is(err, domain.ErrServiceUnavailable):
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": domain.ErrServiceUnavailable.Error()})
		default:
			h.log.Error().Err(err).Str("username", req.Username).Msg("login failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "an error occurred during login"})
		}
	}

	cookie, err := h.sessions.Issue(*s, h.now())
	if err != nil {
		h.log.Error().Err(err).Str("username", s.Username).Msg("issue session cookie")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "an error occurred during login"})
	}
	c.SetCookie(cookie)

	h.log.Info().Str("username", s.Username).Str("role", s.Role.String()).Msg("session established")

	if middleware.WantsHTML(c) {
		target := req.ReturnURL
		if target == "" {
			target = c.QueryParam("returnUrl")
		}
		return c.Redirect(http.StatusFound, safeReturnURL(target))
	}
	return c.JSON(http.StatusOK, sessionResponse{Username: s.Username, Role: s.Role, ExpiresAt: s.ExpiresAt})
}

// Logout drops the session cookie. It succeeds with or without a session.
func (h *AccountHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Me returns the identity of the current session.
func (h *AccountHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	exp, _ := c.Get(middleware.KeyExpiresAt).(time.Time)
	return c.JSON(http.StatusOK, sessionResponse{Username: p.Username, Role: p.Role, ExpiresAt: exp})
}

// safeReturnURL only allows local paths; anything else lands on the dashboard.
func safeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") ||
		strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}
