package dto

// ── 定时任务模块 DTO ──

// JobRunResponse 单次任务执行结果
type JobRunResponse struct {
	Job        string `json:"job"`
	RunID      string `json:"runId"`
	Success    bool   `json:"success"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}
