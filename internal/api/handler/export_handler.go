package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/dto"
	"timetable-console/internal/service"
	"timetable-console/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	timetableSvc service.TimetableService
	exportSvc    service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(timetableSvc service.TimetableService, exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{timetableSvc: timetableSvc, exportSvc: exportSvc}
}

// ExportExcel 导出课表网格为 xlsx
// GET /api/v1/timetables/:semester/:department/export.xlsx
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	view, err := h.timetableSvc.GetView(c.Request.Context(), c.Param("semester"), c.Param("department"))
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(view)
	if err != nil {
		handleExportError(c, err)
		return
	}

	writeAttachment(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportICS 导出课表为按周重复的日历
// GET /api/v1/timetables/:semester/:department/export.ics?week_start=2024-07-01&weeks=16
func (h *ExportHandler) ExportICS(c *gin.Context) {
	var req dto.ExportICSRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: week_start 格式为 YYYY-MM-DD，weeks 范围 1-30")
		return
	}

	weekStart := time.Now()
	if req.WeekStart != "" {
		// binding 已校验格式
		weekStart, _ = time.Parse(time.DateOnly, req.WeekStart)
	}

	view, err := h.timetableSvc.GetView(c.Request.Context(), c.Param("semester"), c.Param("department"))
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	data, filename, err := h.exportSvc.ExportICS(view, weekStart, req.Weeks)
	if err != nil {
		handleExportError(c, err)
		return
	}

	writeAttachment(c, contentTypeICS, filename, data)
}

func writeAttachment(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, data)
}

func handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoData):
		response.BadRequest(c, 25001, "课表中没有可导出的时间段")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 25002, "生成导出文件失败")
	default:
		response.InternalError(c)
	}
}
