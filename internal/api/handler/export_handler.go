package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"chrono-union/backend/internal/service"
	"chrono-union/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	icsSvc    service.ICSService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, icsSvc service.ICSService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, icsSvc: icsSvc}
}

// ExportInstances 导出区间内事件实例为 Excel
// GET /api/v1/export/instances?startDate=2025-01-01&endDate=2025-03-31
func (h *ExportHandler) ExportInstances(c *gin.Context) {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if startDate == "" || endDate == "" {
		response.BadRequest(c, 10001, "startDate 与 endDate 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportInstances(c.Request.Context(), startDate, endDate)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GetEventICS 事件的 iCalendar 订阅
// GET /api/v1/events/:id/ics
func (h *ExportHandler) GetEventICS(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	document, err := h.icsSvc.SerializeEvent(c.Request.Context(), eventID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=event.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(document))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 21001, "事件不存在")
	case errors.Is(err, service.ErrExportNoInstances):
		response.NotFound(c, 24001, "区间内无事件实例")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 21003, err.Error())
	case errors.Is(err, service.ErrInvalidTimezone):
		response.BadRequest(c, 20001, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.StoreUnavailable(c)
	}
}
