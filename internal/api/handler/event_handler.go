package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"chrono-union/backend/internal/dto"
	"chrono-union/backend/internal/service"
	pkgerrors "chrono-union/backend/pkg/errors"
	"chrono-union/backend/pkg/response"
)

// EventHandler 日历事件模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// CreateEvent 创建事件
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.Created(c, event)
}

// GetEvent 查询单个事件
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventSvc.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, event)
}

// ListEvents 查询日期区间内的事件
// GET /api/v1/events?startDate=2025-01-01&endDate=2025-01-31
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.ListEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	events, err := h.eventSvc.ListEvents(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, gin.H{"list": events})
}

// UpdateEvent 更新事件（乐观锁）
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.UpdateEvent(c.Request.Context(), eventID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, event)
}

// DeleteEvent 软删除事件
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.DeleteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.eventSvc.DeleteEvent(c.Request.Context(), eventID, &req); err != nil {
		h.handleEventError(c, err)
		return
	}
	response.OK(c, nil)
}

// CreateReminder 为事件创建提醒
// POST /api/v1/events/:id/reminders
func (h *EventHandler) CreateReminder(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reminder, err := h.eventSvc.CreateReminder(c.Request.Context(), eventID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}
	response.Created(c, reminder)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 21001, "事件不存在")
	case errors.Is(err, service.ErrInvalidEventData):
		response.BadRequest(c, 22001, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 21003, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 22002, err.Error())
	default:
		response.StoreUnavailable(c)
	}
}
