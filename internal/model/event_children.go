package model

import "time"

// 事件的附属子表。完整性清理按 event_id 外键扫描这些表，
// 业务层只做基础读写。

// ── 变更类型常量 ──

const (
	ChangeTypeCreated = "CREATED"
	ChangeTypeUpdated = "UPDATED"
	ChangeTypeDeleted = "DELETED"
)

// EventParticipant 事件参与人
type EventParticipant struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;not null;index" json:"eventId"`
	UserID  int64 `gorm:"column:user_id;not null" json:"userId"`

	Role           string     `gorm:"column:role;size:10;not null;default:REQUIRED" json:"role"`
	ResponseStatus string     `gorm:"column:response_status;size:10;not null;default:PENDING" json:"responseStatus"`
	RespondedAt    *time.Time `gorm:"column:responded_at" json:"respondedAt,omitempty"`

	AddedBy int64     `gorm:"column:added_by;not null" json:"addedBy"`
	AddedAt time.Time `gorm:"column:added_at;autoCreateTime" json:"addedAt"`
}

// TableName 指定表名
func (EventParticipant) TableName() string {
	return "calendar_event_participants"
}

// EventPermission 事件授权
type EventPermission struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;not null;index" json:"eventId"`
	UserID  int64 `gorm:"column:user_id;not null" json:"userId"`

	Permission string `gorm:"column:permission;size:10;not null;default:VIEW" json:"permission"`

	GrantedBy int64     `gorm:"column:granted_by;not null" json:"grantedBy"`
	GrantedAt time.Time `gorm:"column:granted_at;autoCreateTime" json:"grantedAt"`
}

// TableName 指定表名
func (EventPermission) TableName() string {
	return "calendar_event_permissions"
}

// EventAttachment 事件附件
type EventAttachment struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;not null;index" json:"eventId"`

	Filename         string `gorm:"column:filename;size:255;not null" json:"filename"`
	OriginalFilename string `gorm:"column:original_filename;size:255;not null" json:"originalFilename"`
	URL              string `gorm:"column:url;size:1000;not null" json:"url"`
	FileSize         int64  `gorm:"column:file_size;not null" json:"fileSize"`
	MimeType         string `gorm:"column:mime_type;size:100;not null" json:"mimeType"`

	UploadedBy int64     `gorm:"column:uploaded_by;not null" json:"uploadedBy"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploadedAt"`
}

// TableName 指定表名
func (EventAttachment) TableName() string {
	return "calendar_event_attachments"
}

// EventHistory 事件变更历史，保留期满后由清理任务删除
type EventHistory struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;not null;index" json:"eventId"`

	ChangeType string    `gorm:"column:change_type;size:20;not null" json:"changeType"`
	ChangedBy  int64     `gorm:"column:changed_by;not null" json:"changedBy"`
	ChangedAt  time.Time `gorm:"column:changed_at;autoCreateTime;index" json:"changedAt"`

	FieldChanged  *string `gorm:"column:field_changed;size:100" json:"fieldChanged,omitempty"`
	PreviousValue *string `gorm:"column:previous_value" json:"previousValue,omitempty"`
	NewValue      *string `gorm:"column:new_value" json:"newValue,omitempty"`
	ChangeReason  *string `gorm:"column:change_reason" json:"changeReason,omitempty"`
}

// TableName 指定表名
func (EventHistory) TableName() string {
	return "calendar_event_history"
}
