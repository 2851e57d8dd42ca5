package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chrono-union/backend/internal/dto"
	"chrono-union/backend/internal/service"
	"chrono-union/backend/pkg/response"
)

// TimezoneHandler 时区模块 HTTP 处理器
type TimezoneHandler struct {
	timezoneSvc service.TimezoneService
}

// NewTimezoneHandler 创建 TimezoneHandler
func NewTimezoneHandler(timezoneSvc service.TimezoneService) *TimezoneHandler {
	return &TimezoneHandler{timezoneSvc: timezoneSvc}
}

// ValidateTimezone 校验 IANA 时区标识
// GET /api/v1/timezone/validate?tz=America/New_York
func (h *TimezoneHandler) ValidateTimezone(c *gin.Context) {
	tz := c.Query("tz")
	if tz == "" {
		response.BadRequest(c, 10001, "tz 不能为空")
		return
	}

	if err := h.timezoneSvc.ValidateTimezone(tz); err != nil {
		response.OK(c, gin.H{"timezone": tz, "valid": false})
		return
	}
	response.OK(c, gin.H{"timezone": tz, "valid": true})
}

// ConvertTimezone 墙上时钟跨时区转换
// POST /api/v1/timezone/convert
func (h *TimezoneHandler) ConvertTimezone(c *gin.Context) {
	var req dto.ConvertTimezoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timezoneSvc.ConvertTimezone(&req)
	if err != nil {
		h.handleTimezoneError(c, err)
		return
	}
	response.OK(c, result)
}

// ValidateDateTime 校验墙上时钟是否真实存在
// POST /api/v1/timezone/validate-datetime
func (h *TimezoneHandler) ValidateDateTime(c *gin.Context) {
	var req dto.ValidateDateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timezoneSvc.ValidateDateTime(&req)
	if err != nil {
		h.handleTimezoneError(c, err)
		return
	}
	response.OK(c, result)
}

// GetCurrentTime 指定时区当前时间
// GET /api/v1/timezone/now?tz=Asia/Shanghai
func (h *TimezoneHandler) GetCurrentTime(c *gin.Context) {
	tz := c.Query("tz")
	if tz == "" {
		response.BadRequest(c, 10001, "tz 不能为空")
		return
	}

	result, err := h.timezoneSvc.GetCurrentTime(tz)
	if err != nil {
		h.handleTimezoneError(c, err)
		return
	}
	response.OK(c, result)
}

// FormatDateTime 按布局格式化日期时间
// POST /api/v1/timezone/format
func (h *TimezoneHandler) FormatDateTime(c *gin.Context) {
	var req dto.FormatDateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	formatted, err := h.timezoneSvc.FormatDateTime(&req)
	if err != nil {
		h.handleTimezoneError(c, err)
		return
	}
	response.OK(c, gin.H{"formatted": formatted})
}

// CalculateDuration 计算时钟区间时长
// POST /api/v1/timezone/duration
func (h *TimezoneHandler) CalculateDuration(c *gin.Context) {
	var req dto.DurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.timezoneSvc.CalculateDuration(&req)
	if err != nil {
		h.handleTimezoneError(c, err)
		return
	}
	response.OK(c, result)
}

// GetTimezoneOffset 查询时区 UTC 偏移
// GET /api/v1/timezone/offset?tz=America/New_York&date=2025-01-15
func (h *TimezoneHandler) GetTimezoneOffset(c *gin.Context) {
	tz := c.Query("tz")
	if tz == "" {
		response.BadRequest(c, 10001, "tz 不能为空")
		return
	}

	result, err := h.timezoneSvc.GetTimezoneOffset(tz, c.Query("date"))
	if err != nil {
		h.handleTimezoneError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *TimezoneHandler) handleTimezoneError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTimezone):
		response.BadRequest(c, 20001, err.Error())
	case errors.Is(err, service.ErrInvalidDateTime):
		response.BadRequest(c, 20002, err.Error())
	default:
		response.InternalError(c)
	}
}
