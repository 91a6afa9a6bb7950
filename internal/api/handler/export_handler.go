package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"alpimi-planner/backend/internal/service"
	"alpimi-planner/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSchedule 导出课表课时安排
// GET /api/v1/lesson-blocks/export?schedule_id=xxx
func (h *ExportHandler) ExportSchedule(c *gin.Context) {
	scheduleID := c.Query("schedule_id")
	if scheduleID == "" {
		response.BadRequest(c, 10001, "schedule_id 不能为空")
		return
	}
	if !isUUID(scheduleID) {
		h.handleExportError(c, service.ErrExportScheduleNotFound)
		return
	}

	scope, ok := MustGetScope(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSchedule(c.Request.Context(), scheduleID, scope)
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

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportScheduleNotFound):
		response.NotFound(c, 20101, "课表不存在")
	case errors.Is(err, service.ErrExportNoBlocks):
		response.BadRequest(c, 20102, "课表中暂无课时块")
	default:
		response.InternalError(c)
	}
}
