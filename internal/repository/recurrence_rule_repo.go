package repository

import (
	"context"

	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
)

// RecurrenceRuleRepository 重复规则数据访问接口
type RecurrenceRuleRepository interface {
	Create(ctx context.Context, rule *model.RecurrenceRule) error
	GetByEventID(ctx context.Context, eventID int64) (*model.RecurrenceRule, error)
	Update(ctx context.Context, rule *model.RecurrenceRule) error
	DeleteByEventID(ctx context.Context, eventID int64) error
}

// ── RecurrenceRule Repository 实现 ──

type recurrenceRuleRepo struct {
	db *gorm.DB
}

func NewRecurrenceRuleRepo(db *gorm.DB) RecurrenceRuleRepository {
	return &recurrenceRuleRepo{db: db}
}

func (r *recurrenceRuleRepo) Create(ctx context.Context, rule *model.RecurrenceRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *recurrenceRuleRepo) GetByEventID(ctx context.Context, eventID int64) (*model.RecurrenceRule, error) {
	var rule model.RecurrenceRule
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *recurrenceRuleRepo) Update(ctx context.Context, rule *model.RecurrenceRule) error {
	return r.db.WithContext(ctx).
		Model(rule).
		Where("id = ?", rule.ID).
		Updates(map[string]interface{}{
			"frequency":               rule.Frequency,
			"interval":                rule.Interval,
			"by_day":                  rule.ByDay,
			"by_month_day":            rule.ByMonthDay,
			"by_day_of_week_in_month": rule.ByDayOfWeekInMonth,
			"by_month":                rule.ByMonth,
			"start_date":              rule.StartDate,
			"end_date":                rule.EndDate,
			"count":                   rule.Count,
			"exception_dates":         rule.ExceptionDates,
		}).Error
}

func (r *recurrenceRuleRepo) DeleteByEventID(ctx context.Context, eventID int64) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.RecurrenceRule{}).Error
}
