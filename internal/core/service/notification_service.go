package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
)

type NotificationService struct {
	repo ports.NotificationRepository
	now  func() time.Time
	log  zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now, log: log}
}

func (s *NotificationService) Notify(ctx context.Context, recipient, message string, taskID *uint) error {
	n := &domain.Notification{
		RecipientUsername: recipient,
		Message:           message,
		Timestamp:         s.now().UTC(),
		TaskID:            taskID,
	}
	return s.repo.Create(ctx, n)
}

// Unread lists unread notifications, newest first.
func (s *NotificationService) Unread(ctx context.Context, username string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, username)
}

func (s *NotificationService) UnreadCount(ctx context.Context, username string) (int64, error) {
	return s.repo.CountUnread(ctx, username)
}

func (s *NotificationService) MarkRead(ctx context.Context, username string, taskID *uint) error {
	n, err := s.repo.MarkRead(ctx, username, taskID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug().Str("username", username).Int64("count", n).Msg("notifications marked read")
	}
	return nil
}
