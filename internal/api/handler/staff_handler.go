package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/dto"
	"timetable-console/internal/service"
	"timetable-console/pkg/response"
)

// StaffHandler 教职工模块 HTTP 处理器
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler 创建 StaffHandler
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// Create 新建教职工
// POST /api/v1/staff
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.staffSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleStaffError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 教职工列表
// GET /api/v1/staff
func (h *StaffHandler) List(c *gin.Context) {
	list, err := h.staffSvc.List(c.Request.Context())
	if err != nil {
		handleStaffError(c, err)
		return
	}
	response.OK(c, list)
}

// GetByID 教职工详情
// GET /api/v1/staff/:id
func (h *StaffHandler) GetByID(c *gin.Context) {
	resp, err := h.staffSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleStaffError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update 更新教职工
// PUT /api/v1/staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	var req dto.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.staffSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleStaffError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除教职工
// DELETE /api/v1/staff/:id
func (h *StaffHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.staffSvc.Delete(c.Request.Context(), id); err != nil {
		handleStaffError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id})
}

func handleStaffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 23001, "教职工不存在")
	default:
		handleUpstreamError(c, err)
	}
}
