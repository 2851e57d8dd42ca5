package model

import "time"

// ── 通知类型常量 ──

const NotificationTypeCalendarReminder = "CALENDAR_REMINDER"

// Notification 站内通知，由提醒派发任务写入。
// related_type/related_id 指向触发来源（日历事件）。
type Notification struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"column:user_id;not null;index" json:"userId"`

	Type    string `gorm:"column:type;size:50;not null" json:"type"`
	Title   string `gorm:"column:title;size:200;not null" json:"title"`
	Content string `gorm:"column:content;not null" json:"content"`

	IsRead      bool    `gorm:"column:is_read;not null;default:false" json:"isRead"`
	RelatedType *string `gorm:"column:related_type;size:30" json:"relatedType,omitempty"`
	RelatedID   *int64  `gorm:"column:related_id" json:"relatedId,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
