package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
)

// ReminderRepository 提醒数据访问接口
type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	// ListDue 查询已到期的待发送提醒，按 reminder_time、id 升序返回
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ── Reminder Repository 实现 ──

type reminderRepo struct {
	db *gorm.DB
}

func NewReminderRepo(db *gorm.DB) ReminderRepository {
	return &reminderRepo{db: db}
}

func (r *reminderRepo) Create(ctx context.Context, reminder *model.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *reminderRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	var reminders []model.Reminder
	query := r.db.WithContext(ctx).
		Where("status = ? AND reminder_time <= ?", model.ReminderStatusPending, now).
		Order("reminder_time ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reminders).Error
	return reminders, err
}

func (r *reminderRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         model.ReminderStatusSent,
			"sent_at":        sentAt,
			"failure_reason": nil,
		}).Error
}

func (r *reminderRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         model.ReminderStatusFailed,
			"failure_reason": reason,
		}).Error
}

func (r *reminderRepo) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND sent_at < ?", model.ReminderStatusSent, cutoff).
		Delete(&model.Reminder{})
	return result.RowsAffected, result.Error
}
