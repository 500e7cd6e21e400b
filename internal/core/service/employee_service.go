package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
)

// EmployeeService manages employee records. Single-record reads by id go
// through a short-lived cache that is invalidated on update and delete.
// Cache failures are logged and never fail the request.
type EmployeeService struct {
	repo  ports.EmployeeRepository
	cache ports.EmployeeCache
	log   zerolog.Logger
}

// NewEmployeeService returns an EmployeeService. cache may be nil.
func NewEmployeeService(repo ports.EmployeeRepository, cache ports.EmployeeCache, log zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, cache: cache, log: log}
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*domain.Employee, error) {
	if s.cache != nil {
		e, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Uint("employee_id", id).Msg("employee cache read failed")
		} else if ok {
			return e, nil
		}
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, e); err != nil {
			s.log.Warn().Err(err).Uint("employee_id", id).Msg("employee cache write failed")
		}
	}
	return e, nil
}

func (s *EmployeeService) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *EmployeeService) List(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Specialty = strings.TrimSpace(filter.Specialty)
	return s.repo.List(ctx, filter)
}

func (s *EmployeeService) Create(ctx context.Context, in ports.EmployeeInput) (*domain.Employee, error) {
	if err := validateEmployee(in); err != nil {
		return nil, err
	}

	e := &domain.Employee{}
	applyEmployeeInput(e, in)
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info().Uint("employee_id", e.ID).Str("username", e.Username).Msg("employee created")
	return e, nil
}

// Update saves in over the record with the given id. A stale Version is
// resolved by re-checking existence: a vanished record is reported as not
// found, otherwise the conflict is returned to the caller.
func (s *EmployeeService) Update(ctx context.Context, id uint, in ports.EmployeeInput) (*domain.Employee, error) {
	if err := validateEmployee(in); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	applyEmployeeInput(&updated, in)
	updated.Version = in.Version
	if len(in.Avatar) == 0 {
		updated.Avatar = current.Avatar
		updated.AvatarType = current.AvatarType
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, s.resolveConflict(ctx, id, err)
		}
		return nil, err
	}

	s.invalidate(ctx, id)
	return &updated, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info().Uint("employee_id", id).Msg("employee deleted")
	return nil
}

// Avatar returns the stored image and its content type, both empty when the
// employee has none.
func (s *EmployeeService) Avatar(ctx context.Context, id uint) ([]byte, string, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !e.HasAvatar() {
		return nil, "", nil
	}
	return e.Avatar, e.AvatarType, nil
}

func (s *EmployeeService) resolveConflict(ctx context.Context, id uint, cause error) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("re-check employee %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	if !exists {
		return domain.ErrEmployeeNotFound
	}
	return cause
}

func (s *EmployeeService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Uint("employee_id", id).Msg("employee cache invalidation failed")
	}
}

func validateEmployee(in ports.EmployeeInput) error {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(in.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(in.Specialty) == "" {
		missing = append(missing, "specialty")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if len(in.Avatar) > 0 && in.AvatarType == "" {
		return fmt.Errorf("%w: avatar content type is required", domain.ErrValidation)
	}
	return nil
}

func applyEmployeeInput(e *domain.Employee, in ports.EmployeeInput) {
	e.FirstName = strings.TrimSpace(in.FirstName)
	e.LastName = strings.TrimSpace(in.LastName)
	e.Username = strings.TrimSpace(in.Username)
	e.DateOfBirth = in.DateOfBirth
	e.Specialty = strings.TrimSpace(in.Specialty)
	e.HireDate = in.HireDate
	if len(in.Avatar) > 0 {
		e.Avatar = in.Avatar
		e.AvatarType = in.AvatarType
	}
}
