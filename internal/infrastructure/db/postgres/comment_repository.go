package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := &commentModel{
		TaskID:         c.TaskID,
		Content:        c.Content,
		AuthorUsername: c.AuthorUsername,
		Timestamp:      c.Timestamp,
	}
	if err := r.db.WithContext(ctx).Omit("Task").Create(m).Error; err != nil {
		return fmt.Errorf("create comment: %w", translate(err, domain.ErrTaskNotFound))
	}
	c.ID = m.ID
	return nil
}

// ListByTask returns the task's comments oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID uint) ([]domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []commentModel
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("timestamp, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	out := make([]domain.Comment, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}
