package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Event              EventRepository
	RecurrenceRule     RecurrenceRuleRepository
	RecurrenceInstance RecurrenceInstanceRepository
	Reminder           ReminderRepository
	History            EventHistoryRepository
	Integrity          IntegrityRepository
	Notification       NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Event:              NewEventRepo(db),
		RecurrenceRule:     NewRecurrenceRuleRepo(db),
		RecurrenceInstance: NewRecurrenceInstanceRepo(db),
		Reminder:           NewReminderRepo(db),
		History:            NewEventHistoryRepo(db),
		Integrity:          NewIntegrityRepo(db),
		Notification:       NewNotificationRepo(db),
	}
}
