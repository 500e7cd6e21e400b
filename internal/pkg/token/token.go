// Package token issues and validates the HS256 identity tokens exchanged
// between the auth API and the task application.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/staffboard/todo-system/internal/core/domain"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 8 * time.Hour

var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token has expired")
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidClaims    = errors.New("token claims are invalid")
)

// Claims are the identity facts carried by a validated token.
type Claims struct {
	ID        string
	Subject   string
	UserID    string
	Name      string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	UserID string `json:"uid,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues tokens for authenticated users.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner returns a Signer using key for HS256. A non-positive ttl falls
// back to DefaultTTL.
func NewSigner(key []byte, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{key: key, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Issue signs a token for user at the given instant and returns it together
// with its expiry as encoded in the token.
func (s *Signer) Issue(user *domain.User, now time.Time) (string, time.Time, error) {
	if len(s.key) == 0 {
		return "", time.Time{}, errors.New("token: empty signing key")
	}
	if !user.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("token: %w", domain.ErrInvalidRole)
	}

	issued := jwt.NewNumericDate(now)
	expires := jwt.NewNumericDate(now.Add(s.ttl))

	claims := tokenClaims{
		UserID: user.ID,
		Name:   user.Username,
		Role:   user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  issued,
			ExpiresAt: expires,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires.Time, nil
}

// Validate checks the signature and expiry of tokenString against key using
// the current time.
func Validate(tokenString string, key []byte) (*Claims, error) {
	return ValidateAt(tokenString, key, time.Now())
}

// ValidateAt is Validate with an explicit clock. A token is valid strictly
// before its expiry; there is no leeway. Issuer and audience are not checked.
func ValidateAt(tokenString string, key []byte, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var tc tokenClaims
	_, err := parser.ParseWithClaims(tokenString, &tc, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	role, err := domain.ParseRole(tc.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	if tc.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}

	out := &Claims{
		ID:      tc.ID,
		Subject: tc.Subject,
		UserID:  tc.UserID,
		Name:    tc.Name,
		Role:    role,
	}
	if tc.IssuedAt != nil {
		out.IssuedAt = tc.IssuedAt.Time
	}
	out.ExpiresAt = tc.ExpiresAt.Time
	return out, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing), errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
