package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
	pkgerrors "chrono-union/backend/pkg/errors"
)

// EventRepository 日历事件数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.CalendarEvent) error
	GetByID(ctx context.Context, id int64) (*model.CalendarEvent, error)
	ListRecurring(ctx context.Context) ([]model.CalendarEvent, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error)
	Update(ctx context.Context, event *model.CalendarEvent) error
	SoftDelete(ctx context.Context, id int64) error
}

// ── Event Repository 实现 ──

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListRecurring(ctx context.Context) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("is_recurring = ? AND status != ?", true, model.EventStatusCancelled).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListInRange(ctx context.Context, start, end time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC, id ASC").
		Find(&events).Error
	return events, err
}

// Update 带版本号的乐观锁更新，版本不匹配返回 ErrOptimisticLock
func (r *eventRepo) Update(ctx context.Context, event *model.CalendarEvent) error {
	oldVersion := event.Version
	result := r.db.WithContext(ctx).
		Model(event).
		Where("id = ? AND version = ?", event.ID, oldVersion).
		Updates(map[string]interface{}{
			"title":            event.Title,
			"description":      event.Description,
			"location":         event.Location,
			"start_date":       event.StartDate,
			"end_date":         event.EndDate,
			"start_time":       event.StartTime,
			"end_time":         event.EndTime,
			"timezone":         event.Timezone,
			"is_floating_time": event.IsFloatingTime,
			"status":           event.Status,
			"priority":         event.Priority,
			"is_recurring":     event.IsRecurring,
			"assigned_to":      event.AssignedTo,
			"visibility":       event.Visibility,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = oldVersion + 1
	return nil
}

func (r *eventRepo) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.CalendarEvent{}).Error
}
