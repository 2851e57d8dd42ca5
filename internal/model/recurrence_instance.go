package model

import "time"

// ── 实例状态常量 ──

const (
	InstanceStatusGenerated = "GENERATED"
	InstanceStatusModified  = "MODIFIED"
	InstanceStatusCancelled = "CANCELLED"
)

// RecurrenceInstance 重复事件的物化实例，按 (parent_event_id, instance_date) 唯一。
// Modified* 字段仅在单次实例被修改时填写，展示时覆盖父事件对应字段。
type RecurrenceInstance struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ParentEventID int64     `gorm:"column:parent_event_id;not null;index" json:"parentEventId"`
	InstanceDate  time.Time `gorm:"column:instance_date;type:date;not null" json:"instanceDate"`

	StartTime *string `gorm:"column:start_time;size:8" json:"startTime,omitempty"`
	EndTime   *string `gorm:"column:end_time;size:8" json:"endTime,omitempty"`
	Timezone  string  `gorm:"column:timezone;size:50;not null;default:UTC" json:"timezone"`

	Status string `gorm:"column:status;size:20;not null;default:GENERATED" json:"status"`

	ModifiedTitle       *string `gorm:"column:modified_title;size:255" json:"modifiedTitle,omitempty"`
	ModifiedDescription *string `gorm:"column:modified_description" json:"modifiedDescription,omitempty"`
	ModifiedLocation    *string `gorm:"column:modified_location;size:255" json:"modifiedLocation,omitempty"`
	ModifiedAssignedTo  *int64  `gorm:"column:modified_assigned_to" json:"modifiedAssignedTo,omitempty"`

	GeneratedAt time.Time  `gorm:"column:generated_at;autoCreateTime" json:"generatedAt"`
	ModifiedAt  *time.Time `gorm:"column:modified_at" json:"modifiedAt,omitempty"`
	ModifiedBy  *int64     `gorm:"column:modified_by" json:"modifiedBy,omitempty"`
}

// TableName 指定表名
func (RecurrenceInstance) TableName() string {
	return "calendar_recurrence_instances"
}
