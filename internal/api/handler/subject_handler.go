package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/dto"
	"timetable-console/internal/service"
	"timetable-console/pkg/response"
)

// SubjectHandler 课程模块 HTTP 处理器
type SubjectHandler struct {
	subjectSvc service.SubjectService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// Create 新建课程
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.subjectSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 课程列表
// GET /api/v1/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	list, err := h.subjectSvc.List(c.Request.Context())
	if err != nil {
		handleSubjectError(c, err)
		return
	}
	response.OK(c, list)
}

// GetByID 课程详情
// GET /api/v1/subjects/:id
func (h *SubjectHandler) GetByID(c *gin.Context) {
	resp, err := h.subjectSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSubjectError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update 更新课程
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.subjectSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSubjectError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除课程
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.subjectSvc.Delete(c.Request.Context(), id); err != nil {
		handleSubjectError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id})
}

func handleSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 22001, "课程不存在")
	default:
		handleUpstreamError(c, err)
	}
}
