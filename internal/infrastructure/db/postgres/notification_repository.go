package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/staffboard/todo-system/internal/core/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := &notificationModel{
		RecipientUsername: n.RecipientUsername,
		Message:           n.Message,
		IsRead:            n.IsRead,
		Timestamp:         n.Timestamp,
		TaskID:            n.TaskID,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	n.ID = m.ID
	return nil
}

func (r *NotificationRepository) unread(ctx context.Context, username string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_username = ? AND is_read = ?", username, false)
}

// ListUnread returns unread notifications newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context, username string) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []notificationModel
	if err := r.unread(ctx, username).Order("timestamp DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, username string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	err := r.unread(ctx, username).Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, username string, taskID *uint) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.unread(ctx, username)
	if taskID != nil {
		q = q.Where("task_id = ?", *taskID)
	}
	res := q.Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
