package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/dto"
	"timetable-console/internal/service"
	"timetable-console/pkg/response"
)

// TimetableHandler 课表模块 Handler
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// Generate 生成课表
// POST /api/v1/timetables/generate
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: type 只能是 odd/even，department 不能为空")
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 课表列表
// GET /api/v1/timetables
func (h *TimetableHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, list)
}

// GetView 单个学期 + 部门的网格视图
// GET /api/v1/timetables/:semester/:department
func (h *TimetableHandler) GetView(c *gin.Context) {
	view, err := h.svc.GetView(c.Request.Context(), c.Param("semester"), c.Param("department"))
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, view)
}

// Delete 删除课表
// DELETE /api/v1/timetables/:semester/:department
func (h *TimetableHandler) Delete(c *gin.Context) {
	semester, department := c.Param("semester"), c.Param("department")
	if err := h.svc.Delete(c.Request.Context(), semester, department); err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: semester + "/" + department})
}

// GetVersion 查看某一版本的全部学期
// GET /api/v1/timetables/versions/:type/:version
func (h *TimetableHandler) GetVersion(c *gin.Context) {
	version, ok := parseVersion(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetVersion(c.Request.Context(), c.Param("type"), version)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// SetActive 切换生效版本
// PUT /api/v1/timetables/versions/:type/:version/active
func (h *TimetableHandler) SetActive(c *gin.Context) {
	version, ok := parseVersion(c)
	if !ok {
		return
	}

	semType := c.Param("type")
	if err := h.svc.SetActive(c.Request.Context(), semType, version); err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, dto.ActiveTimetableResponse{Type: semType, Version: version})
}

// GetActive 当前生效版本
// GET /api/v1/timetables/active/:type
func (h *TimetableHandler) GetActive(c *gin.Context) {
	resp, err := h.svc.GetActive(c.Request.Context(), c.Param("type"))
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

func parseVersion(c *gin.Context) (int, bool) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version <= 0 {
		response.BadRequest(c, 20004, "版本号必须为正整数")
		return 0, false
	}
	return version, true
}

func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 20001, "课表不存在")
	case errors.Is(err, service.ErrNoTimetableData):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 20002, "未获取到课表数据", "请确认该部门已配置课程与教职工")
	case errors.Is(err, service.ErrInvalidSemesterType):
		response.BadRequest(c, 20003, "学期类型只能是 odd 或 even")
	case errors.Is(err, service.ErrInvalidVersion):
		response.BadRequest(c, 20004, "版本号必须为正整数")
	default:
		handleUpstreamError(c, err)
	}
}
