package dto

// ── 事件模块 DTO ──

// RecurrenceRuleRequest 随事件提交的重复规则
type RecurrenceRuleRequest struct {
	Frequency      string   `json:"frequency" binding:"required"` // DAILY / WEEKLY / MONTHLY / YEARLY
	Interval       int      `json:"interval"`                     // <=0 时取 1
	ByDay          []int    `json:"byDay,omitempty"`              // 0=周日 … 6=周六
	ByMonthDay     []int    `json:"byMonthDay,omitempty"`         // 负数表示从月末倒数
	ByMonth        []int    `json:"byMonth,omitempty"`
	EndDate        *string  `json:"endDate,omitempty"` // 2006-01-02
	Count          *int     `json:"count,omitempty"`
	ExceptionDates []string `json:"exceptionDates,omitempty"`
}

// CreateEventRequest 事件创建请求。StartTime/EndTime 为空表示全天事件。
type CreateEventRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Location    *string `json:"location"`

	StartDate      string  `json:"startDate" binding:"required"` // 2006-01-02
	EndDate        string  `json:"endDate" binding:"required"`
	StartTime      *string `json:"startTime"` // 15:04:05
	EndTime        *string `json:"endTime"`
	Timezone       string  `json:"timezone"` // 空则 UTC
	IsFloatingTime bool    `json:"isFloatingTime"`

	Module     string `json:"module" binding:"required"`
	EventType  string `json:"eventType" binding:"required"`
	Priority   string `json:"priority"`   // 空则 MEDIUM
	Visibility string `json:"visibility"` // 空则 TEAM

	CreatedBy  int64  `json:"createdBy" binding:"required"`
	AssignedTo *int64 `json:"assignedTo"`

	Recurrence *RecurrenceRuleRequest `json:"recurrence"`
}

// UpdateEventRequest 事件更新请求。仅覆盖填写的字段；
// Version 必须等于当前持久化版本，否则更新被乐观锁拒绝。
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Timezone    *string `json:"timezone"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *int64  `json:"assignedTo"`
	Visibility  *string `json:"visibility"`

	Version   int     `json:"version" binding:"required"`
	UpdatedBy int64   `json:"updatedBy" binding:"required"`
	Reason    *string `json:"reason"`
}

// DeleteEventRequest 事件删除请求
type DeleteEventRequest struct {
	DeletedBy int64   `json:"deletedBy" binding:"required"`
	Reason    *string `json:"reason"`
}

// ListEventsRequest 事件区间查询
type ListEventsRequest struct {
	StartDate string `form:"startDate" binding:"required"` // 2006-01-02
	EndDate   string `form:"endDate" binding:"required"`
}

// CreateReminderRequest 提醒创建请求。ReminderTime 与 RelativeMinutes
// 二选一：前者为绝对触发时刻（RFC3339），后者相对事件开始提前的分钟数。
type CreateReminderRequest struct {
	UserID          int64   `json:"userId" binding:"required"`
	ReminderTime    *string `json:"reminderTime"`
	RelativeMinutes *int    `json:"relativeMinutes"`
	Method          string  `json:"method"` // 空则 IN_APP
	RecipientEmail  *string `json:"recipientEmail"`
}
