package model

import "time"

// ── 重复频率常量 ──

const (
	FrequencyDaily   = "DAILY"
	FrequencyWeekly  = "WEEKLY"
	FrequencyMonthly = "MONTHLY"
	FrequencyYearly  = "YEARLY"
)

// RecurrenceRule 重复规则，与事件一对一。
// ByDay 元素为星期几（0=周日 … 6=周六）；ByMonthDay 支持负数表示从月末倒数
// （-1=最后一天）；ByDayOfWeekInMonth 表示"第 N 个星期几"；ExceptionDates
// 中的日期在展开时直接跳过，且不消耗 Count 配额。
type RecurrenceRule struct {
	ID      int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID int64 `gorm:"column:event_id;not null;uniqueIndex" json:"eventId"`

	Frequency string `gorm:"column:frequency;size:10;not null" json:"frequency"`
	Interval  int    `gorm:"column:interval;not null;default:1" json:"interval"`

	ByDay              IntArray           `gorm:"column:by_day;type:int[]" json:"byDay,omitempty"`
	ByMonthDay         IntArray           `gorm:"column:by_month_day;type:int[]" json:"byMonthDay,omitempty"`
	ByDayOfWeekInMonth WeekdayOfMonthList `gorm:"column:by_day_of_week_in_month;type:jsonb" json:"byDayOfWeekInMonth,omitempty"`
	ByMonth            IntArray           `gorm:"column:by_month;type:int[]" json:"byMonth,omitempty"`

	StartDate      time.Time  `gorm:"column:start_date;type:date;not null" json:"startDate"`
	EndDate        *time.Time `gorm:"column:end_date;type:date" json:"endDate,omitempty"`
	Count          *int       `gorm:"column:count" json:"count,omitempty"`
	ExceptionDates DateArray  `gorm:"column:exception_dates;type:date[];not null;default:'{}'" json:"exceptionDates"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName 指定表名
func (RecurrenceRule) TableName() string {
	return "calendar_recurrence_rules"
}
