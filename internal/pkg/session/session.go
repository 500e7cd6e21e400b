// Package session encodes an established login into a signed, HTTP-only
// cookie with sliding expiry capped at the issuer token's expiry.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/staffboard/todo-system/internal/core/domain"
)

const (
	DefaultCookieName = "todo_session"
	DefaultWindow     = 8 * time.Hour
)

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrInvalidSession = errors.New("session cookie is invalid")
)

// Config controls cookie naming, signing and renewal.
type Config struct {
	Key        []byte
	CookieName string
	Window     time.Duration
	Secure     bool
}

// Manager issues, reads, renews and clears session cookies.
type Manager struct {
	key    []byte
	name   string
	window time.Duration
	secure bool
}

func NewManager(cfg Config) *Manager {
	m := &Manager{
		key:    cfg.Key,
		name:   cfg.CookieName,
		window: cfg.Window,
		secure: cfg.Secure,
	}
	if m.name == "" {
		m.name = DefaultCookieName
	}
	if m.window <= 0 {
		m.window = DefaultWindow
	}
	return m
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string { return m.name }

type cookieClaims struct {
	Role string           `json:"role"`
	Cap  *jwt.NumericDate `json:"cap"`
	jwt.RegisteredClaims
}

// Issue builds the cookie for s. The cookie expires at now+window or at
// s.ExpiresAt, whichever comes first.
func (m *Manager) Issue(s domain.Session, now time.Time) (*http.Cookie, error) {
	if !now.Before(s.ExpiresAt) {
		return nil, fmt.Errorf("%w: session already expired", ErrInvalidSession)
	}

	exp := now.Add(m.window)
	if exp.After(s.ExpiresAt) {
		exp = s.ExpiresAt
	}

	claims := cookieClaims{
		Role: s.Role.String(),
		Cap:  jwt.NewNumericDate(s.ExpiresAt),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// State is a decoded session together with the current cookie expiry.
type State struct {
	Session       domain.Session
	CookieExpires time.Time
}

// Read decodes and verifies the session cookie on r.
func (m *Manager) Read(r *http.Request, now time.Time) (*State, error) {
	ck, err := r.Cookie(m.name)
	if err != nil || ck.Value == "" {
		return nil, ErrNoSession
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	var cc cookieClaims
	if _, err := parser.ParseWithClaims(ck.Value, &cc, func(*jwt.Token) (any, error) {
		return m.key, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	role, err := domain.ParseRole(cc.Role)
	if err != nil || cc.Subject == "" || cc.Cap == nil {
		return nil, ErrInvalidSession
	}
	if !now.Before(cc.Cap.Time) {
		return nil, fmt.Errorf("%w: past absolute expiry", ErrInvalidSession)
	}

	return &State{
		Session: domain.Session{
			Username:  cc.Subject,
			Role:      role,
			ExpiresAt: cc.Cap.Time,
		},
		CookieExpires: cc.ExpiresAt.Time,
	}, nil
}

// Refresh returns a renewed cookie when more than half of the sliding window
// has elapsed and the cap still leaves room to extend. Otherwise it returns nil.
func (m *Manager) Refresh(st *State, now time.Time) (*http.Cookie, error) {
	if st == nil {
		return nil, nil
	}
	if st.CookieExpires.Sub(now) > m.window/2 {
		return nil, nil
	}
	if !st.CookieExpires.Before(st.Session.ExpiresAt) {
		return nil, nil
	}
	return m.Issue(st.Session, now)
}

// Clear returns a cookie that removes the session from the client.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
