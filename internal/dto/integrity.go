package dto

import "time"

// ── 数据完整性模块 DTO ──

// IntegrityReport 只读完整性检查报告。
// Orphans 的键与清理任务的报告键一致（orphanedInstances 等）。
type IntegrityReport struct {
	Orphans            map[string]int64 `json:"orphans"`
	TableCounts        map[string]int64 `json:"tableCounts"`
	InvalidEntityLinks int64            `json:"invalidEntityLinks"`
	CheckedAt          time.Time        `json:"checkedAt"`
}

// CleanupReport 一轮完整性清理的删除统计
type CleanupReport struct {
	Orphans                  map[string]int64 `json:"orphans"`
	SoftDeletedEventsRemoved int64            `json:"softDeletedEventsRemoved"`
	RemindersRemoved         int64            `json:"remindersRemoved"`
	HistoryRemoved           int64            `json:"historyRemoved"`
	FinishedAt               time.Time        `json:"finishedAt"`
}

// ValidateEventResponse 单事件校验结果，Errors 为空即有效
type ValidateEventResponse struct {
	EventID int64    `json:"eventId"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors"`
}
