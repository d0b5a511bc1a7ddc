package dto

// ── 课程模块 DTO ──

// SubjectRequest 新建 / 更新课程
type SubjectRequest struct {
	SubjectName    string `json:"subject_name"     binding:"required,max=100"`
	SubjectCode    string `json:"subject_code"     binding:"required,max=20"`
	SubjectType    string `json:"subject_type"     binding:"required,oneof=Lecture Lab"`
	Faculty        string `json:"faculty"          binding:"required"`
	PeriodsPerWeek int    `json:"periods_per_week" binding:"required,min=1,max=40"`
	LabName        string `json:"lab_name"         binding:"required_if=SubjectType Lab,max=100"`
	Semester       string `json:"semester"         binding:"required"`
	Department     string `json:"department"       binding:"required,max=100"`
}

// SubjectResponse 课程信息
type SubjectResponse struct {
	ID             string `json:"id"`
	SubjectName    string `json:"subject_name"`
	SubjectCode    string `json:"subject_code"`
	SubjectType    string `json:"subject_type"`
	Faculty        string `json:"faculty"`
	PeriodsPerWeek int    `json:"periods_per_week"`
	LabName        string `json:"lab_name,omitempty"`
	Semester       string `json:"semester"`
	Department     string `json:"department"`
}
