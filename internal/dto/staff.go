package dto

// ── 教职工模块 DTO ──

// StaffRequest 新建 / 更新教职工
type StaffRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Department  string `json:"department"  binding:"required,max=100"`
	Email       string `json:"email"       binding:"required,email"`
	Phone       string `json:"phone"       binding:"omitempty,max=20"`
	Designation string `json:"designation" binding:"required,max=100"`
}

// StaffResponse 教职工信息
type StaffResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation"`
}
