package ports

import (
	"context"

	"github.com/staffboard/todo-system/internal/core/domain"
)

// TokenIssuer is the remote auth API as seen by the task application.
// Transport failures wrap domain.ErrIssuerUnreachable; non-2xx answers wrap
// domain.ErrIssuerRejected.
type TokenIssuer interface {
	Login(ctx context.Context, username, password string) (*TokenResult, error)
}

// LoginService bridges issuer tokens into local sessions.
type LoginService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
}
