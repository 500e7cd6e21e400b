package ports

import (
	"context"

	"github.com/staffboard/todo-system/internal/core/domain"
)

// UserRepository persists issuer credential records. Create must enforce
// uniqueness of username and email at the store level and report violations
// as domain.ErrDuplicateUsername or domain.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
