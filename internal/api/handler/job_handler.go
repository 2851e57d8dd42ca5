package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chrono-union/backend/internal/service"
	"chrono-union/backend/pkg/response"
)

// JobHandler 定时任务模块 HTTP 处理器
type JobHandler struct {
	jobSvc service.JobService
}

// NewJobHandler 创建 JobHandler
func NewJobHandler(jobSvc service.JobService) *JobHandler {
	return &JobHandler{jobSvc: jobSvc}
}

// ListJobs 列出全部可执行任务
// GET /api/v1/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	registry := h.jobSvc.Registry()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	response.OK(c, gin.H{"jobs": names})
}

// RunJob 手动触发一个任务
// POST /api/v1/jobs/:name/run
func (h *JobHandler) RunJob(c *gin.Context) {
	name := c.Param("name")

	result, err := h.jobSvc.Execute(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownJob) {
			response.NotFound(c, 23001, "未知的定时任务: "+name)
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
