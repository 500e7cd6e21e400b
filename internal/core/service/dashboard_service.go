package service

import (
	"context"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
)

// DashboardService summarises task counts for the landing page.
type DashboardService struct {
	tasks     ports.TaskRepository
	employees ports.EmployeeRepository
}

func NewDashboardService(tasks ports.TaskRepository, employees ports.EmployeeRepository) *DashboardService {
	return &DashboardService{tasks: tasks, employees: employees}
}

// Stats returns global counts for Admin and the caller's own counts for
// Employee. An Employee without an employee record gets ErrEmployeeNotFound.
func (s *DashboardService) Stats(ctx context.Context, p domain.Principal) (*domain.TaskStats, error) {
	if !p.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	var (
		filter domain.TaskFilter
		stats  domain.TaskStats
		err    error
	)

	switch p.Role {
	case domain.RoleAdmin:
		if stats.TotalEmployees, err = s.employees.Count(ctx); err != nil {
			return nil, err
		}
	case domain.RoleEmployee:
		emp, err := s.employees.FindByUsername(ctx, p.Username)
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = &emp.ID
	default:
		return nil, domain.ErrForbidden
	}

	if stats.TotalTasks, err = s.tasks.Count(ctx, filter); err != nil {
		return nil, err
	}
	pending := false
	filter.IsCompleted = &pending
	if stats.PendingTasks, err = s.tasks.Count(ctx, filter); err != nil {
		return nil, err
	}
	return &stats, nil
}
