package ports

import (
	"context"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	// Update follows the same version rule as EmployeeRepository.Update.
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Task, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	Count(ctx context.Context, filter domain.TaskFilter) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListByTask(ctx context.Context, taskID uint) ([]domain.Comment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListUnread(ctx context.Context, username string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, username string) (int64, error)
	// MarkRead flags unread notifications of username as read, restricted to
	// taskID when it is non-nil. It returns the number of rows changed.
	MarkRead(ctx context.Context, username string, taskID *uint) (int64, error)
}
