package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
)

// RecurrenceInstanceRepository 物化实例数据访问接口
type RecurrenceInstanceRepository interface {
	// ReplaceWindow 在单个事务内删除事件在 [start, end] 窗口内的全部实例并批量写入
	// 新实例。窗口内已修改或已取消的实例同样会被覆盖。
	ReplaceWindow(ctx context.Context, eventID int64, start, end time.Time, instances []model.RecurrenceInstance) error
	GetByID(ctx context.Context, id int64) (*model.RecurrenceInstance, error)
	GetByEventAndDate(ctx context.Context, eventID int64, date time.Time) (*model.RecurrenceInstance, error)
	ListByEventRange(ctx context.Context, eventID int64, start, end time.Time) ([]model.RecurrenceInstance, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]model.RecurrenceInstance, error)
	Update(ctx context.Context, instance *model.RecurrenceInstance) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ── RecurrenceInstance Repository 实现 ──

type recurrenceInstanceRepo struct {
	db *gorm.DB
}

func NewRecurrenceInstanceRepo(db *gorm.DB) RecurrenceInstanceRepository {
	return &recurrenceInstanceRepo{db: db}
}

func (r *recurrenceInstanceRepo) ReplaceWindow(ctx context.Context, eventID int64, start, end time.Time, instances []model.RecurrenceInstance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("parent_event_id = ? AND instance_date >= ? AND instance_date <= ?", eventID, start, end).
			Delete(&model.RecurrenceInstance{}).Error; err != nil {
			return err
		}
		if len(instances) == 0 {
			return nil
		}
		return tx.Create(&instances).Error
	})
}

func (r *recurrenceInstanceRepo) GetByID(ctx context.Context, id int64) (*model.RecurrenceInstance, error) {
	var instance model.RecurrenceInstance
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *recurrenceInstanceRepo) GetByEventAndDate(ctx context.Context, eventID int64, date time.Time) (*model.RecurrenceInstance, error) {
	var instance model.RecurrenceInstance
	err := r.db.WithContext(ctx).
		Where("parent_event_id = ? AND instance_date = ?", eventID, date).
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *recurrenceInstanceRepo) ListByEventRange(ctx context.Context, eventID int64, start, end time.Time) ([]model.RecurrenceInstance, error) {
	var instances []model.RecurrenceInstance
	err := r.db.WithContext(ctx).
		Where("parent_event_id = ? AND instance_date >= ? AND instance_date <= ?", eventID, start, end).
		Order("instance_date ASC").
		Find(&instances).Error
	return instances, err
}

func (r *recurrenceInstanceRepo) ListInRange(ctx context.Context, start, end time.Time) ([]model.RecurrenceInstance, error) {
	var instances []model.RecurrenceInstance
	err := r.db.WithContext(ctx).
		Where("instance_date >= ? AND instance_date <= ?", start, end).
		Order("instance_date ASC, parent_event_id ASC").
		Find(&instances).Error
	return instances, err
}

func (r *recurrenceInstanceRepo) Update(ctx context.Context, instance *model.RecurrenceInstance) error {
	return r.db.WithContext(ctx).
		Model(instance).
		Where("id = ?", instance.ID).
		Updates(map[string]interface{}{
			"status":               instance.Status,
			"start_time":           instance.StartTime,
			"end_time":             instance.EndTime,
			"timezone":             instance.Timezone,
			"modified_title":       instance.ModifiedTitle,
			"modified_description": instance.ModifiedDescription,
			"modified_location":    instance.ModifiedLocation,
			"modified_assigned_to": instance.ModifiedAssignedTo,
			"modified_at":          instance.ModifiedAt,
			"modified_by":          instance.ModifiedBy,
		}).Error
}

func (r *recurrenceInstanceRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("instance_date <= ?", cutoff).
		Delete(&model.RecurrenceInstance{})
	return result.RowsAffected, result.Error
}
