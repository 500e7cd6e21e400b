package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func taskScope(f domain.TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.EmployeeID != nil {
			q = q.Where("employee_id = ?", *f.EmployeeID)
		}
		if f.IsCompleted != nil {
			q = q.Where("is_completed = ?", *f.IsCompleted)
		}
		if f.Title != "" {
			q = q.Where("title ILIKE ?", containsPattern(f.Title))
		}
		if f.Description != "" {
			q = q.Where("description ILIKE ?", containsPattern(f.Description))
		}
		return q
	}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := taskFromDomain(t)
	m.ID = 0
	m.Version = 1
	if err := r.db.WithContext(ctx).Omit("Employee").Create(m).Error; err != nil {
		return fmt.Errorf("create task: %w", translate(err, domain.ErrTaskNotFound))
	}
	t.ID, t.Version = m.ID, m.Version
	return nil
}

// Update writes t only when the stored version equals t.Version.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]any{
			"title":        t.Title,
			"description":  t.Description,
			"is_completed": t.IsCompleted,
			"employee_id":  t.EmployeeID,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("update task %d: %w", t.ID, translate(res.Error, domain.ErrTaskNotFound))
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrencyConflict
	}
	t.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&taskModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m taskModel
	if err := r.db.WithContext(ctx).Preload("Employee").First(&m, id).Error; err != nil {
		return nil, translate(err, domain.ErrTaskNotFound)
	}
	return m.toDomain(), nil
}

func (r *TaskRepository) Exists(ctx context.Context, id uint) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TaskRepository) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []taskModel
	err := r.db.WithContext(ctx).
		Scopes(taskScope(f)).
		Preload("Employee", func(q *gorm.DB) *gorm.DB { return q.Omit("avatar_image") }).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]domain.Task, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

func (r *TaskRepository) Count(ctx context.Context, f domain.TaskFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Model(&taskModel{}).Scopes(taskScope(f)).Count(&n).Error
	return n, err
}
