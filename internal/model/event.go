package model

import (
	"time"

	"gorm.io/gorm"
)

// ── 日历事件状态/枚举常量 ──

const (
	EventStatusScheduled   = "SCHEDULED"
	EventStatusInProgress  = "IN_PROGRESS"
	EventStatusCompleted   = "COMPLETED"
	EventStatusCancelled   = "CANCELLED"
	EventStatusRescheduled = "RESCHEDULED"
)

const (
	EventPriorityLow    = "LOW"
	EventPriorityMedium = "MEDIUM"
	EventPriorityHigh   = "HIGH"
	EventPriorityUrgent = "URGENT"
)

const (
	EventVisibilityPrivate = "PRIVATE"
	EventVisibilityTeam    = "TEAM"
	EventVisibilityPublic  = "PUBLIC"
)

// CalendarEvent 日历事件主表。
// start_time/end_time 为 HH:MM:SS 墙上时钟字符串，具体时区由 timezone 字段决定；
// is_floating_time 为 true 时表示浮动时间（各地按本地时钟理解，不做时区换算）。
type CalendarEvent struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string  `gorm:"column:title;size:255;not null" json:"title"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	Location    *string `gorm:"column:location;size:255" json:"location,omitempty"`

	StartDate      time.Time `gorm:"column:start_date;type:date;not null" json:"startDate"`
	EndDate        time.Time `gorm:"column:end_date;type:date;not null" json:"endDate"`
	StartTime      *string   `gorm:"column:start_time;size:8" json:"startTime,omitempty"`
	EndTime        *string   `gorm:"column:end_time;size:8" json:"endTime,omitempty"`
	Timezone       string    `gorm:"column:timezone;size:50;not null;default:UTC" json:"timezone"`
	IsFloatingTime bool      `gorm:"column:is_floating_time;not null;default:false" json:"isFloatingTime"`

	Module    string `gorm:"column:module;size:50;not null" json:"module"`
	EventType string `gorm:"column:event_type;size:50;not null" json:"eventType"`
	Status    string `gorm:"column:status;size:20;not null;default:SCHEDULED" json:"status"`
	Priority  string `gorm:"column:priority;size:20;not null;default:MEDIUM" json:"priority"`

	IsRecurring bool `gorm:"column:is_recurring;not null;default:false" json:"isRecurring"`

	EntityType *string `gorm:"column:entity_type;size:50" json:"entityType,omitempty"`
	EntityID   *int64  `gorm:"column:entity_id" json:"entityId,omitempty"`

	CreatedBy  int64  `gorm:"column:created_by;not null" json:"createdBy"`
	AssignedTo *int64 `gorm:"column:assigned_to" json:"assignedTo,omitempty"`
	Visibility string `gorm:"column:visibility;size:20;not null;default:TEAM" json:"visibility"`

	Version   int            `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// TableName 指定表名
func (CalendarEvent) TableName() string {
	return "calendar_events"
}
