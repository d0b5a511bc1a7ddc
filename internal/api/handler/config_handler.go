package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/dto"
	"timetable-console/internal/service"
	"timetable-console/pkg/response"
)

// ConfigHandler 作息配置 HTTP 处理器
type ConfigHandler struct {
	configSvc service.ConfigService
}

// NewConfigHandler 创建 ConfigHandler
func NewConfigHandler(configSvc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configSvc: configSvc}
}

// Create 新建作息配置
// POST /api/v1/config
func (h *ConfigHandler) Create(c *gin.Context) {
	var req dto.ScheduleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", "时间格式必须为 HH:MM")
		return
	}

	resp, err := h.configSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleConfigError(c, err)
		return
	}
	response.Created(c, resp)
}

// List 作息配置列表
// GET /api/v1/config
func (h *ConfigHandler) List(c *gin.Context) {
	list, err := h.configSvc.List(c.Request.Context())
	if err != nil {
		handleConfigError(c, err)
		return
	}
	response.OK(c, list)
}

// GetByID 作息配置详情
// GET /api/v1/config/:id
func (h *ConfigHandler) GetByID(c *gin.Context) {
	resp, err := h.configSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleConfigError(c, err)
		return
	}
	response.OK(c, resp)
}

// Update 更新作息配置
// PUT /api/v1/config/:id
func (h *ConfigHandler) Update(c *gin.Context) {
	var req dto.ScheduleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", "时间格式必须为 HH:MM")
		return
	}

	resp, err := h.configSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleConfigError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除作息配置
// DELETE /api/v1/config/:id
func (h *ConfigHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.configSvc.Delete(c.Request.Context(), id); err != nil {
		handleConfigError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id})
}

func handleConfigError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrConfigNotFound):
		response.NotFound(c, 24001, "作息配置不存在")
	case errors.Is(err, service.ErrConfigInvalidTime):
		response.ErrorWithDetails(c, http.StatusBadRequest, 24002, "时间格式必须为 HH:MM", err.Error())
	case errors.Is(err, service.ErrConfigWindowOrder):
		response.ErrorWithDetails(c, http.StatusBadRequest, 24003, "开始时间必须早于结束时间", err.Error())
	case errors.Is(err, service.ErrConfigQCPCRequired):
		response.BadRequest(c, 24004, "启用 QCPC 时必须填写开始和结束时间")
	default:
		handleUpstreamError(c, err)
	}
}
