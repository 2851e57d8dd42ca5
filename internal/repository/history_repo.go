package repository

import (
	"context"

	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
)

// EventHistoryRepository 事件变更历史数据访问接口。
// 历史只增不改，清理由 IntegrityRepository 按保留期执行。
type EventHistoryRepository interface {
	Create(ctx context.Context, entry *model.EventHistory) error
	ListByEvent(ctx context.Context, eventID int64) ([]model.EventHistory, error)
}

// ── EventHistory Repository 实现 ──

type eventHistoryRepo struct {
	db *gorm.DB
}

func NewEventHistoryRepo(db *gorm.DB) EventHistoryRepository {
	return &eventHistoryRepo{db: db}
}

func (r *eventHistoryRepo) Create(ctx context.Context, entry *model.EventHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *eventHistoryRepo) ListByEvent(ctx context.Context, eventID int64) ([]model.EventHistory, error) {
	var entries []model.EventHistory
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("changed_at DESC").
		Find(&entries).Error
	return entries, err
}
