package ports

import (
	"context"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	// Update saves e if its Version still matches the stored row and bumps
	// it. A stale version yields domain.ErrConcurrencyConflict.
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Employee, error)
	FindByUsername(ctx context.Context, username string) (*domain.Employee, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error)
	Count(ctx context.Context) (int64, error)
}

// EmployeeCache is a short-lived read cache keyed by employee id.
type EmployeeCache interface {
	Get(ctx context.Context, id uint) (*domain.Employee, bool, error)
	Set(ctx context.Context, e *domain.Employee) error
	Invalidate(ctx context.Context, id uint) error
}
