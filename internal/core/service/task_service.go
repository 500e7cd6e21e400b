package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
	"github.com/staffboard/todo-system/internal/pkg/metrics"
)

// MaxCommentLength matches the width of the comments.content column.
const MaxCommentLength = 1000

// TaskService owns tasks and their comments. Every operation takes the
// calling principal and is gated here: Admin may act on any task, Employee
// only on tasks assigned to their own employee record, resolved by username.
type TaskService struct {
	tasks         ports.TaskRepository
	comments      ports.CommentRepository
	employees     ports.EmployeeRepository
	notifications ports.NotificationService
	now           func() time.Time
	log           zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	comments ports.CommentRepository,
	employees ports.EmployeeRepository,
	notifications ports.NotificationService,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:         tasks,
		comments:      comments,
		employees:     employees,
		notifications: notifications,
		now:           time.Now,
		log:           log,
	}
}

// List returns all tasks for Admin and the caller's own tasks for Employee.
// An Employee without an employee record is treated as unauthenticated.
func (s *TaskService) List(ctx context.Context, p domain.Principal, filter domain.TaskFilter) ([]domain.Task, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	switch p.Role {
	case domain.RoleAdmin:
		filter.EmployeeID = nil
	case domain.RoleEmployee:
		emp, err := s.employees.FindByUsername(ctx, p.Username)
		if err != nil {
			if errors.Is(err, domain.ErrEmployeeNotFound) {
				return nil, domain.ErrUnauthorized
			}
			return nil, err
		}
		filter.EmployeeID = &emp.ID
	default:
		return nil, domain.ErrForbidden
	}

	filter.Title = strings.TrimSpace(filter.Title)
	filter.Description = strings.TrimSpace(filter.Description)
	return s.tasks.List(ctx, filter)
}

// Details returns the task with its comments and marks the caller's
// notifications for that task as read.
func (s *TaskService) Details(ctx context.Context, p domain.Principal, id uint) (*ports.TaskDetails, error) {
	task, err := s.authorizedTask(ctx, p, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	if err := s.notifications.MarkRead(ctx, p.Username, &id); err != nil {
		s.log.Warn().Err(err).Uint("task_id", id).Str("username", p.Username).Msg("mark notifications read failed")
	}

	return &ports.TaskDetails{Task: *task, Comments: comments}, nil
}

// AddComment stores a comment and notifies the other party: the assignee when
// an Admin comments, the admin account when the assignee does.
func (s *TaskService) AddComment(ctx context.Context, p domain.Principal, taskID uint, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, fmt.Errorf("%w: content must be at most %d characters", domain.ErrValidation, MaxCommentLength)
	}

	task, err := s.authorizedTask(ctx, p, taskID)
	if err != nil {
		return nil, err
	}

	c := &domain.Comment{
		TaskID:         task.ID,
		Content:        content,
		AuthorUsername: p.Username,
		Timestamp:      s.now().UTC(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	recipient := domain.AdminUsername
	if p.IsAdmin() {
		assignee, err := s.assignee(ctx, task)
		if err != nil {
			return nil, err
		}
		recipient = assignee.Username
	}

	msg := fmt.Sprintf("New comment on task '%s' by %s.", task.Title, p.Username)
	if err := s.notifications.Notify(ctx, recipient, msg, &task.ID); err != nil {
		return nil, fmt.Errorf("notify %s: %w", recipient, err)
	}
	metrics.NotificationsCreatedTotal.WithLabelValues("comment").Inc()

	return c, nil
}

// Create adds a task and notifies its assignee. Admin only.
func (s *TaskService) Create(ctx context.Context, p domain.Principal, in ports.TaskInput) (*domain.Task, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := validateTask(in); err != nil {
		return nil, err
	}

	assignee, err := s.employees.FindByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		IsCompleted: in.IsCompleted,
		EmployeeID:  assignee.ID,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	t.Employee = assignee

	msg := fmt.Sprintf("You have been assigned a new task: '%s'.", t.Title)
	if err := s.notifications.Notify(ctx, assignee.Username, msg, &t.ID); err != nil {
		return nil, fmt.Errorf("notify %s: %w", assignee.Username, err)
	}
	metrics.NotificationsCreatedTotal.WithLabelValues("assignment").Inc()

	s.log.Info().Uint("task_id", t.ID).Str("assignee", assignee.Username).Msg("task created")
	return t, nil
}

// Update saves in over the task. Admin only. A stale Version is resolved by
// re-checking existence.
func (s *TaskService) Update(ctx context.Context, p domain.Principal, id uint, in ports.TaskInput) (*domain.Task, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := validateTask(in); err != nil {
		return nil, err
	}
	if _, err := s.employees.FindByID(ctx, in.EmployeeID); err != nil {
		return nil, err
	}

	t := &domain.Task{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		IsCompleted: in.IsCompleted,
		EmployeeID:  in.EmployeeID,
		Version:     in.Version,
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		exists, xerr := s.tasks.Exists(ctx, id)
		if xerr != nil {
			return nil, fmt.Errorf("re-check task %d: %w", id, xerr)
		}
		if !exists {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a task. Admin only.
func (s *TaskService) Delete(ctx context.Context, p domain.Principal, id uint) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

// authorizedTask loads a task and applies the ownership rule. A task owned by
// someone else yields ErrForbidden rather than ErrTaskNotFound.
func (s *TaskService) authorizedTask(ctx context.Context, p domain.Principal, id uint) (*domain.Task, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if !p.Role.Valid() {
		return nil, domain.ErrForbidden
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsAdmin() {
		return task, nil
	}

	emp, err := s.employees.FindByUsername(ctx, p.Username)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if task.EmployeeID != emp.ID {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (s *TaskService) assignee(ctx context.Context, t *domain.Task) (*domain.Employee, error) {
	if t.Employee != nil {
		return t.Employee, nil
	}
	return s.employees.FindByID(ctx, t.EmployeeID)
}

func requireAdmin(p domain.Principal) error {
	if !p.Authenticated() {
		return domain.ErrUnauthorized
	}
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func validateTask(in ports.TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if in.EmployeeID == 0 {
		return fmt.Errorf("%w: employeeId is required", domain.ErrValidation)
	}
	return nil
}
