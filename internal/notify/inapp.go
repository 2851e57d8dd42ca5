package notify

import (
	"context"

	"go.uber.org/zap"

	"chrono-union/backend/internal/model"
	"chrono-union/backend/internal/repository"
)

// InAppSender 站内通知发送器，写入 notifications 表
type InAppSender struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

// NewInAppSender 创建站内通知发送器
func NewInAppSender(repo repository.NotificationRepository, logger *zap.Logger) *InAppSender {
	return &InAppSender{repo: repo, logger: logger}
}

func (s *InAppSender) Send(ctx context.Context, userID int64, title, message string, metadata map[string]interface{}) error {
	notification := &model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypeCalendarReminder,
		Title:   title,
		Content: message,
	}
	if eventID, ok := metadata["eventId"].(int64); ok {
		relatedType := "calendar_event"
		notification.RelatedType = &relatedType
		notification.RelatedID = &eventID
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}
	s.logger.Debug("站内通知已写入",
		zap.Int64("user_id", userID),
		zap.String("title", title))
	return nil
}
