package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chrono-union/backend/internal/service"
	"chrono-union/backend/pkg/response"
)

// IntegrityHandler 数据完整性模块 HTTP 处理器
type IntegrityHandler struct {
	integritySvc service.IntegrityService
}

// NewIntegrityHandler 创建 IntegrityHandler
func NewIntegrityHandler(integritySvc service.IntegrityService) *IntegrityHandler {
	return &IntegrityHandler{integritySvc: integritySvc}
}

// GetIntegrityReport 只读完整性检查报告
// GET /api/v1/integrity/report
func (h *IntegrityHandler) GetIntegrityReport(c *gin.Context) {
	report, err := h.integritySvc.VerifyIntegrity(c.Request.Context())
	if err != nil {
		response.StoreUnavailable(c)
		return
	}
	response.OK(c, report)
}

// RunCleanup 手动触发一轮完整清理
// POST /api/v1/integrity/cleanup
func (h *IntegrityHandler) RunCleanup(c *gin.Context) {
	report, err := h.integritySvc.RunAllCleanup(c.Request.Context())
	if err != nil {
		response.StoreUnavailable(c)
		return
	}
	response.OK(c, report)
}

// ValidateEvent 校验单个事件的数据一致性
// POST /api/v1/events/:id/validate
func (h *IntegrityHandler) ValidateEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.integritySvc.ValidateEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 21001, "事件不存在")
			return
		}
		response.StoreUnavailable(c)
		return
	}
	response.OK(c, result)
}
