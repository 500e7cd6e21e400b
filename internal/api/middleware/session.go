package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staffboard/todo-system/internal/pkg/session"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/account/login"

// Sessions reads the session cookie into the request context.
type Sessions struct {
	manager *session.Manager
	now     func() time.Time
	log     zerolog.Logger
}

func NewSessions(manager *session.Manager, log zerolog.Logger) *Sessions {
	return &Sessions{manager: manager, now: time.Now, log: log}
}

// Load populates the context when a valid session is present and continues
// either way.
func (s *Sessions) Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_ = s.apply(c)
			return next(c)
		}
	}
}

// Require rejects requests without a valid session: page requests are
// redirected to the login page, everything else gets 401.
func (s *Sessions) Require() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := s.apply(c); err != nil {
				if errors.Is(err, session.ErrInvalidSession) {
					c.SetCookie(s.manager.Clear())
				}
				if WantsHTML(c) {
					target := LoginPath + "?returnUrl=" + url.QueryEscape(c.Request().URL.RequestURI())
					return c.Redirect(http.StatusFound, target)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

func (s *Sessions) apply(c echo.Context) error {
	now := s.now()
	st, err := s.manager.Read(c.Request(), now)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			s.log.Debug().Err(err).Str("path", c.Path()).Msg("rejected session cookie")
		}
		return err
	}

	c.Set(KeyUsername, st.Session.Username)
	c.Set(KeyRole, st.Session.Role)
	c.Set(KeyExpiresAt, st.Session.ExpiresAt)

	renewed, err := s.manager.Refresh(st, now)
	if err != nil {
		s.log.Warn().Err(err).Str("username", st.Session.Username).Msg("session renewal failed")
		return nil
	}
	if renewed != nil {
		c.SetCookie(renewed)
	}
	return nil
}
