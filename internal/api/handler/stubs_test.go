package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staffboard/todo-system/internal/api/middleware"
	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
)

// withPrincipal mimics what the session middleware puts in the context.
func withPrincipal(c echo.Context, username string, role domain.Role) {
	c.Set(middleware.KeyUsername, username)
	c.Set(middleware.KeyRole, role)
	c.Set(middleware.KeyExpiresAt, time.Date(2025, time.March, 3, 17, 0, 0, 0, time.UTC))
}

type stubLoginService struct {
	fn func(ctx context.Context, username, password string) (*domain.Session, error)
}

func (s *stubLoginService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	return s.fn(ctx, username, password)
}

type stubEmployeeService struct {
	ports.EmployeeService

	employees map[uint]*domain.Employee
	created   *ports.EmployeeInput
	updated   *ports.EmployeeInput
	listed    domain.EmployeeFilter
	updateErr error
}

func (s *stubEmployeeService) Get(_ context.Context, id uint) (*domain.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *stubEmployeeService) List(_ context.Context, f domain.EmployeeFilter) ([]domain.Employee, error) {
	s.listed = f
	out := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, *e)
	}
	return out, nil
}

func (s *stubEmployeeService) Create(_ context.Context, in ports.EmployeeInput) (*domain.Employee, error) {
	s.created = &in
	return &domain.Employee{
		ID:          7,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Username:    in.Username,
		DateOfBirth: in.DateOfBirth,
		Specialty:   in.Specialty,
		HireDate:    in.HireDate,
		Avatar:      in.Avatar,
		AvatarType:  in.AvatarType,
		Version:     1,
	}, nil
}

func (s *stubEmployeeService) Update(_ context.Context, id uint, in ports.EmployeeInput) (*domain.Employee, error) {
	s.updated = &in
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &domain.Employee{ID: id, FirstName: in.FirstName, LastName: in.LastName, Version: in.Version + 1}, nil
}

func (s *stubEmployeeService) Delete(_ context.Context, id uint) error {
	if _, ok := s.employees[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *stubEmployeeService) Avatar(_ context.Context, id uint) ([]byte, string, error) {
	e, ok := s.employees[id]
	if !ok {
		return nil, "", domain.ErrEmployeeNotFound
	}
	if !e.HasAvatar() {
		return nil, "", nil
	}
	return e.Avatar, e.AvatarType, nil
}

type stubTaskService struct {
	ports.TaskService

	principal domain.Principal
	filter    domain.TaskFilter
	input     ports.TaskInput
	content   string
	err       error
}

func (s *stubTaskService) List(_ context.Context, p domain.Principal, f domain.TaskFilter) ([]domain.Task, error) {
	s.principal, s.filter = p, f
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Task{{ID: 1, Title: "Draft report", EmployeeID: 2}}, nil
}

func (s *stubTaskService) Details(_ context.Context, p domain.Principal, id uint) (*ports.TaskDetails, error) {
	s.principal = p
	if s.err != nil {
		return nil, s.err
	}
	return &ports.TaskDetails{Task: domain.Task{ID: id, Title: "Draft report"}, Comments: []domain.Comment{}}, nil
}

func (s *stubTaskService) AddComment(_ context.Context, p domain.Principal, taskID uint, content string) (*domain.Comment, error) {
	s.principal, s.content = p, content
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Comment{ID: 3, TaskID: taskID, Content: content, AuthorUsername: p.Username}, nil
}

func (s *stubTaskService) Create(_ context.Context, p domain.Principal, in ports.TaskInput) (*domain.Task, error) {
	s.principal, s.input = p, in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Task{ID: 11, Title: in.Title, EmployeeID: in.EmployeeID, Version: 1}, nil
}

func (s *stubTaskService) Update(_ context.Context, p domain.Principal, id uint, in ports.TaskInput) (*domain.Task, error) {
	s.principal, s.input = p, in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Task{ID: id, Title: in.Title, Version: in.Version + 1}, nil
}

func (s *stubTaskService) Delete(_ context.Context, p domain.Principal, _ uint) error {
	s.principal = p
	return s.err
}

type stubNotificationService struct {
	unread   map[string][]domain.Notification
	marked   string
	markedID *uint
}

func (s *stubNotificationService) Notify(context.Context, string, string, *uint) error { return nil }

func (s *stubNotificationService) Unread(_ context.Context, username string) ([]domain.Notification, error) {
	return s.unread[username], nil
}

func (s *stubNotificationService) UnreadCount(_ context.Context, username string) (int64, error) {
	return int64(len(s.unread[username])), nil
}

func (s *stubNotificationService) MarkRead(_ context.Context, username string, taskID *uint) error {
	s.marked, s.markedID = username, taskID
	return nil
}

type stubDashboardService struct {
	stats map[string]*domain.TaskStats
}

func (s *stubDashboardService) Stats(_ context.Context, p domain.Principal) (*domain.TaskStats, error) {
	st, ok := s.stats[p.Username]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return st, nil
}
