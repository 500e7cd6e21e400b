package ports

import (
	"context"
	"time"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type EmployeeInput struct {
	FirstName   string
	LastName    string
	Username    string
	DateOfBirth time.Time
	Specialty   string
	HireDate    time.Time
	Avatar      []byte
	AvatarType  string
	Version     int
}

type EmployeeService interface {
	Get(ctx context.Context, id uint) (*domain.Employee, error)
	GetByUsername(ctx context.Context, username string) (*domain.Employee, error)
	List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error)
	Create(ctx context.Context, in EmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, id uint, in EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id uint) error
	Avatar(ctx context.Context, id uint) ([]byte, string, error)
}
