package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"chrono-union/backend/internal/dto"
	"chrono-union/backend/internal/service"
	"chrono-union/backend/pkg/response"
)

// InstanceHandler 实例物化模块 HTTP 处理器
type InstanceHandler struct {
	instanceSvc service.InstanceService
	defaultDays int
}

// NewInstanceHandler 创建 InstanceHandler
func NewInstanceHandler(instanceSvc service.InstanceService, defaultDaysAhead int) *InstanceHandler {
	return &InstanceHandler{instanceSvc: instanceSvc, defaultDays: defaultDaysAhead}
}

// GenerateInstances 重建单个事件的实例窗口
// POST /api/v1/events/:id/instances/generate
func (h *InstanceHandler) GenerateInstances(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.GenerateInstancesRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	daysAhead := req.DaysAhead
	if daysAhead <= 0 {
		daysAhead = h.defaultDays
	}

	generated, err := h.instanceSvc.GenerateInstances(c.Request.Context(), eventID, daysAhead)
	if err != nil {
		h.handleInstanceError(c, err)
		return
	}
	response.OK(c, dto.GenerateInstancesResponse{EventID: eventID, Generated: generated})
}

// ListInstances 查询事件在日期区间内的实例
// GET /api/v1/events/:id/instances?startDate=2025-01-01&endDate=2025-03-31
func (h *InstanceHandler) ListInstances(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListInstancesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	instances, err := h.instanceSvc.GetInstances(c.Request.Context(), eventID, req.StartDate, req.EndDate)
	if err != nil {
		h.handleInstanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": instances})
}

// ModifyInstance 修改单次实例
// PUT /api/v1/instances/:id
func (h *InstanceHandler) ModifyInstance(c *gin.Context) {
	instanceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ModifyInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	instance, err := h.instanceSvc.ModifyInstance(c.Request.Context(), instanceID, &req)
	if err != nil {
		h.handleInstanceError(c, err)
		return
	}
	response.OK(c, instance)
}

// CancelInstance 取消单次实例
// POST /api/v1/instances/:id/cancel
func (h *InstanceHandler) CancelInstance(c *gin.Context) {
	instanceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CancelInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	instance, err := h.instanceSvc.CancelInstance(c.Request.Context(), instanceID, &req)
	if err != nil {
		h.handleInstanceError(c, err)
		return
	}
	response.OK(c, instance)
}

// ModifyInstanceByDate 按父事件与日期修改单次实例
// PUT /api/v1/events/:id/instances/:date
func (h *InstanceHandler) ModifyInstanceByDate(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ModifyInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	instance, err := h.instanceSvc.ModifyInstanceByDate(c.Request.Context(), eventID, c.Param("date"), &req)
	if err != nil {
		h.handleInstanceError(c, err)
		return
	}
	response.OK(c, instance)
}

// CancelInstanceByDate 按父事件与日期取消单次实例
// POST /api/v1/events/:id/instances/:date/cancel
func (h *InstanceHandler) CancelInstanceByDate(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CancelInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	instance, err := h.instanceSvc.CancelInstanceByDate(c.Request.Context(), eventID, c.Param("date"), &req)
	if err != nil {
		h.handleInstanceError(c, err)
		return
	}
	response.OK(c, instance)
}

func (h *InstanceHandler) handleInstanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 21001, "事件不存在")
	case errors.Is(err, service.ErrInstanceNotFound):
		response.NotFound(c, 21002, "事件实例不存在")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 21003, err.Error())
	default:
		response.StoreUnavailable(c)
	}
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, name+" 必须为正整数")
		return 0, false
	}
	return id, true
}
