package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/service"
	"timetable-console/pkg/response"
)

// PublicTimetableHandler 公开课表（无需登录）
type PublicTimetableHandler struct {
	svc service.PublicTimetableService
}

// NewPublicTimetableHandler 创建 PublicTimetableHandler
func NewPublicTimetableHandler(svc service.PublicTimetableService) *PublicTimetableHandler {
	return &PublicTimetableHandler{svc: svc}
}

// Get 公开课表视图
// GET /api/v1/public/timetables/:semester/:department
func (h *PublicTimetableHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("semester"), c.Param("department"))
	if err != nil {
		handlePublicTimetableError(c, err)
		return
	}
	response.OK(c, view)
}

func handlePublicTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPublicTimetableNotFound):
		response.NotFound(c, 21001, "该学期暂无公开课表")
	default:
		handleUpstreamError(c, err)
	}
}
