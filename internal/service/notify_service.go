package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"chrono-union/backend/internal/model"
	"chrono-union/backend/internal/notify"
)

// ── 通知模块业务错误 ──

var ErrUnknownReminderMethod = errors.New("未知的提醒方式")

// NotifyService 按提醒方式把通知分发到对应通道
type NotifyService interface {
	Dispatch(ctx context.Context, method string, userID int64, title, message string, metadata map[string]interface{}) error
}

type notifyService struct {
	inApp  notify.Sender
	email  notify.Sender
	logger *zap.Logger
}

// NewNotifyService 创建 NotifyService 实例
func NewNotifyService(inApp, email notify.Sender, logger *zap.Logger) NotifyService {
	return &notifyService{inApp: inApp, email: email, logger: logger}
}

func (s *notifyService) Dispatch(ctx context.Context, method string, userID int64, title, message string, metadata map[string]interface{}) error {
	switch method {
	case model.ReminderMethodInApp:
		return s.inApp.Send(ctx, userID, title, message, metadata)
	case model.ReminderMethodEmail:
		return s.email.Send(ctx, userID, title, message, metadata)
	case model.ReminderMethodBoth:
		// 两个通道都发，任一失败整体视为失败
		return errors.Join(
			s.inApp.Send(ctx, userID, title, message, metadata),
			s.email.Send(ctx, userID, title, message, metadata),
		)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownReminderMethod, method)
	}
}
