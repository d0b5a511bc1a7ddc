package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求（管理员 / 教职工共用）
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 控制台会话 Token
type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int             `json:"expires_in"` // 有效期（秒）
	User        ProfileResponse `json:"user"`
}

// ProfileResponse 当前用户信息（GET /auth/me）
type ProfileResponse struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
}
