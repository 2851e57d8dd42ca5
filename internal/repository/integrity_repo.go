package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chrono-union/backend/internal/model"
)

// OrphanTarget 描述一张以 calendar_events 为父表的子表。
// 父事件不存在或已软删除时，子表行视为孤儿。
type OrphanTarget struct {
	Name     string // 对外报告用的键名
	Table    string
	FKColumn string
}

// OrphanTargets 完整性清理扫描的全部子表
var OrphanTargets = []OrphanTarget{
	{Name: "orphanedInstances", Table: "calendar_recurrence_instances", FKColumn: "parent_event_id"},
	{Name: "orphanedReminders", Table: "calendar_reminders", FKColumn: "event_id"},
	{Name: "orphanedParticipants", Table: "calendar_event_participants", FKColumn: "event_id"},
	{Name: "orphanedPermissions", Table: "calendar_event_permissions", FKColumn: "event_id"},
	{Name: "orphanedAttachments", Table: "calendar_event_attachments", FKColumn: "event_id"},
	{Name: "orphanedRecurrenceRules", Table: "calendar_recurrence_rules", FKColumn: "event_id"},
}

// IntegrityRepository 数据完整性维护的数据访问接口
type IntegrityRepository interface {
	CountOrphans(ctx context.Context, target OrphanTarget) (int64, error)
	DeleteOrphans(ctx context.Context, target OrphanTarget) (int64, error)
	// DeleteSoftDeletedEventsBefore 物理删除软删除时间早于 cutoff 的事件
	DeleteSoftDeletedEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountTable(ctx context.Context, table string) (int64, error)
}

// ── Integrity Repository 实现 ──

type integrityRepo struct {
	db *gorm.DB
}

func NewIntegrityRepo(db *gorm.DB) IntegrityRepository {
	return &integrityRepo{db: db}
}

// 孤儿判定：LEFT JOIN 父表后父行缺失，或父行已软删除。
// 表名来自上方白名单常量，不存在注入。
func orphanCondition(target OrphanTarget) string {
	return fmt.Sprintf(
		`%s.id IN (
			SELECT c.id FROM %s c
			LEFT JOIN calendar_events e ON e.id = c.%s AND e.deleted_at IS NULL
			WHERE e.id IS NULL
		)`,
		target.Table, target.Table, target.FKColumn,
	)
}

func (r *integrityRepo) CountOrphans(ctx context.Context, target OrphanTarget) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(target.Table).
		Where(orphanCondition(target)).
		Count(&count).Error
	return count, err
}

func (r *integrityRepo) DeleteOrphans(ctx context.Context, target OrphanTarget) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s", target.Table, orphanCondition(target)),
	)
	return result.RowsAffected, result.Error
}

func (r *integrityRepo) DeleteSoftDeletedEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.CalendarEvent{})
	return result.RowsAffected, result.Error
}

func (r *integrityRepo) DeleteHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("changed_at < ?", cutoff).
		Delete(&model.EventHistory{})
	return result.RowsAffected, result.Error
}

func (r *integrityRepo) CountTable(ctx context.Context, table string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(table).Count(&count).Error
	return count, err
}
