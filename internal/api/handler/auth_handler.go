package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/service"
	"timetable-console/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// AdminLogin 管理员登录
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, model.RoleAdmin)
}

// StaffLogin 教职工登录
// POST /api/v1/auth/staff/login
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	h.login(c, model.RoleStaff)
}

func (h *AuthHandler) login(c *gin.Context, role string) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), role, &req)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出：当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// GetCurrentUser 当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	profile, err := h.authSvc.Profile(c.Request.Context(), claims)
	if err != nil {
		handleAuthError(c, err)
		return
	}

	response.OK(c, profile)
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 10010, "邮箱或密码错误")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 10011, err.Error())
	default:
		handleUpstreamError(c, err)
	}
}
