package dto

// ── 时区模块 DTO ──

// ConvertTimezoneRequest 时区转换请求。Time 为空表示全天事件，仅转换日期。
type ConvertTimezoneRequest struct {
	Date         string  `json:"date" binding:"required"` // 2006-01-02
	Time         *string `json:"time"`                    // 15:04:05，可空
	FromTimezone string  `json:"fromTimezone" binding:"required"`
	ToTimezone   string  `json:"toTimezone" binding:"required"`
}

// ConvertTimezoneResponse 时区转换结果
type ConvertTimezoneResponse struct {
	Date     string  `json:"date"`
	Time     *string `json:"time,omitempty"`
	Timezone string  `json:"timezone"`
}

// ValidateDateTimeRequest 墙上时钟校验请求
type ValidateDateTimeRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Timezone string `json:"timezone" binding:"required"`
}

// ValidateDateTimeResponse 墙上时钟校验结果
type ValidateDateTimeResponse struct {
	Valid     bool   `json:"valid"`
	Ambiguous bool   `json:"ambiguous"`
	Message   string `json:"message,omitempty"`
}

// CurrentTimeResponse 指定时区当前时间
type CurrentTimeResponse struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
}

// FormatDateTimeRequest 格式化请求
type FormatDateTimeRequest struct {
	Date     string  `json:"date" binding:"required"`
	Time     *string `json:"time"`
	Timezone string  `json:"timezone" binding:"required"`
	Layout   string  `json:"layout"` // 空则使用默认布局
}

// DurationRequest 时长计算请求。起止各带日期，可正确跨越午夜与多天。
type DurationRequest struct {
	StartDate string `json:"startDate" binding:"required"` // 2006-01-02
	StartTime string `json:"startTime" binding:"required"` // 15:04:05
	EndDate   string `json:"endDate" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Timezone  string `json:"timezone" binding:"required"`
}

// DurationResponse 时长计算结果
type DurationResponse struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	TotalMinutes int `json:"totalMinutes"`
}

// OffsetResponse 时区偏移信息
type OffsetResponse struct {
	Timezone      string `json:"timezone"`
	OffsetMinutes int    `json:"offsetMinutes"`
	Abbreviation  string `json:"abbreviation"`
	IsDST         bool   `json:"isDst"`
}
