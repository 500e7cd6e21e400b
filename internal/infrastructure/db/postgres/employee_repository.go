package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := employeeFromDomain(e)
	m.ID = 0
	m.Version = 1
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create employee: %w", translate(err, domain.ErrEmployeeNotFound))
	}
	e.ID, e.Version = m.ID, m.Version
	return nil
}

// Update writes e only when the stored version equals e.Version.
func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&employeeModel{}).
		Where("id = ? AND version = ?", e.ID, e.Version).
		Updates(map[string]any{
			"first_name":        e.FirstName,
			"last_name":         e.LastName,
			"username":          e.Username,
			"date_of_birth":     e.DateOfBirth,
			"specialty":         e.Specialty,
			"hire_date":         e.HireDate,
			"avatar_image":      e.Avatar,
			"avatar_image_type": e.AvatarType,
			"version":           gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("update employee %d: %w", e.ID, translate(res.Error, domain.ErrEmployeeNotFound))
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrencyConflict
	}
	e.Version++
	return nil
}

// Delete removes the employee; tasks and their comments cascade.
func (r *EmployeeRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&employeeModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete employee %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id uint) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m employeeModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, domain.ErrEmployeeNotFound)
	}
	return m.toDomain(), nil
}

func (r *EmployeeRepository) FindByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m employeeModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, translate(err, domain.ErrEmployeeNotFound)
	}
	return m.toDomain(), nil
}

func (r *EmployeeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).Model(&employeeModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns employees ordered by last name. Avatars are not loaded.
func (r *EmployeeRepository) List(ctx context.Context, f domain.EmployeeFilter) ([]domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).
		Model(&employeeModel{}).
		Omit("avatar_image")
	if f.Name != "" {
		p := containsPattern(f.Name)
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ?", p, p)
	}
	if f.Specialty != "" {
		q = q.Where("specialty ILIKE ?", containsPattern(f.Specialty))
	}

	var rows []employeeModel
	if err := q.Order("last_name, first_name, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	out := make([]domain.Employee, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Model(&employeeModel{}).Count(&n).Error
	return n, err
}
