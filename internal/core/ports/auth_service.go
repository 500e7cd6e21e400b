package ports

import (
	"context"
	"time"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// TokenResult is what the issuer hands back for valid credentials.
type TokenResult struct {
	Token      string      `json:"token"`
	Expiration time.Time   `json:"expiration"`
	Username   string      `json:"username"`
	Role       domain.Role `json:"role"`
}

// AuthService is the token issuer.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, username, password string) (*TokenResult, error)
}
