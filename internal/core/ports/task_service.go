package ports

import (
	"context"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type TaskInput struct {
	Title       string
	Description string
	IsCompleted bool
	EmployeeID  uint
	Version     int
}

// TaskDetails is a task with its comment thread in timestamp order.
type TaskDetails struct {
	Task     domain.Task      `json:"task"`
	Comments []domain.Comment `json:"comments"`
}

type TaskService interface {
	List(ctx context.Context, p domain.Principal, filter domain.TaskFilter) ([]domain.Task, error)
	Details(ctx context.Context, p domain.Principal, id uint) (*TaskDetails, error)
	AddComment(ctx context.Context, p domain.Principal, taskID uint, content string) (*domain.Comment, error)
	Create(ctx context.Context, p domain.Principal, in TaskInput) (*domain.Task, error)
	Update(ctx context.Context, p domain.Principal, id uint, in TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, p domain.Principal, id uint) error
}

type NotificationService interface {
	Notify(ctx context.Context, recipient, message string, taskID *uint) error
	Unread(ctx context.Context, username string) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, username string) (int64, error)
	MarkRead(ctx context.Context, username string, taskID *uint) error
}

type DashboardService interface {
	Stats(ctx context.Context, p domain.Principal) (*domain.TaskStats, error)
}
