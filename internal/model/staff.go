package model

// Staff 教职工信息
type Staff struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation"`
}

// Role 控制台角色
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Profile 远端返回的当前用户资料
type Profile struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}
