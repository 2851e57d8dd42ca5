package model

import "time"

// ── 提醒方式 / 状态常量 ──

const (
	ReminderMethodInApp = "IN_APP"
	ReminderMethodEmail = "EMAIL"
	ReminderMethodBoth  = "BOTH"
)

const (
	ReminderStatusPending = "PENDING"
	ReminderStatusSent    = "SENT"
	ReminderStatusFailed  = "FAILED"
)

// Reminder 事件提醒。ReminderTime 为绝对触发时刻；RelativeMinutes 记录
// 创建时相对事件开始提前的分钟数，仅作展示用途。
type Reminder struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;not null;index" json:"eventId"`
	UserID  int64 `gorm:"column:user_id;not null" json:"userId"`

	ReminderTime    time.Time `gorm:"column:reminder_time;not null;index" json:"reminderTime"`
	RelativeMinutes *int      `gorm:"column:relative_minutes" json:"relativeMinutes,omitempty"`
	Method          string    `gorm:"column:method;size:10;not null;default:IN_APP" json:"method"`
	// EMAIL / BOTH 渠道的收件地址；派发时注入发送元数据
	RecipientEmail *string `gorm:"column:recipient_email;size:255" json:"recipientEmail,omitempty"`

	Status        string     `gorm:"column:status;size:10;not null;default:PENDING" json:"status"`
	SentAt        *time.Time `gorm:"column:sent_at" json:"sentAt,omitempty"`
	FailureReason *string    `gorm:"column:failure_reason" json:"failureReason,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName 指定表名
func (Reminder) TableName() string {
	return "calendar_reminders"
}
