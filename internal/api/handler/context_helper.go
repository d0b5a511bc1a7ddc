package handler

import (
	"github.com/gin-gonic/gin"

	"timetable-console/pkg/jwt"
	"timetable-console/pkg/response"
)

// ClaimsKey JWT 中间件写入 gin.Context 的会话声明键
const ClaimsKey = "claims"

// MustGetClaims 从 Gin 上下文中安全提取会话声明。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}
