package dto

// ── 作息配置模块 DTO ──

// BreakItemRequest 课间休息
type BreakItemRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"  binding:"required,max=50"`
	Start string `json:"start" binding:"required,hhmm"`
	End   string `json:"end"   binding:"required,hhmm"`
}

// ScheduleConfigRequest 新建 / 更新作息配置
// semester 为空表示全局配置；qcpc_enabled 时 qcpc_start / qcpc_end 必填（服务层校验）
type ScheduleConfigRequest struct {
	Semester          string             `json:"semester"            binding:"omitempty"`
	StartOfDay        string             `json:"start_of_day"        binding:"required,hhmm"`
	QCPCEnabled       bool               `json:"qcpc_enabled"`
	QCPCStart         string             `json:"qcpc_start"          binding:"omitempty,hhmm"`
	QCPCEnd           string             `json:"qcpc_end"            binding:"omitempty,hhmm"`
	ClassStart        string             `json:"class_start"         binding:"required,hhmm"`
	ClassEnd          string             `json:"class_end"           binding:"required,hhmm"`
	LunchStart        string             `json:"lunch_start"         binding:"required,hhmm"`
	LunchEnd          string             `json:"lunch_end"           binding:"required,hhmm"`
	Breaks            []BreakItemRequest `json:"breaks"              binding:"omitempty,dive"`
	PeriodBeforeLunch int                `json:"period_before_lunch" binding:"omitempty,min=0,max=12"`
	PeriodAfterLunch  int                `json:"period_after_lunch"  binding:"omitempty,min=0,max=12"`
}

// BreakItemResponse 课间休息
type BreakItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleConfigResponse 作息配置
type ScheduleConfigResponse struct {
	ID                string              `json:"id"`
	Semester          string              `json:"semester"`
	StartOfDay        string              `json:"start_of_day"`
	QCPCEnabled       bool                `json:"qcpc_enabled"`
	QCPCStart         string              `json:"qcpc_start,omitempty"`
	QCPCEnd           string              `json:"qcpc_end,omitempty"`
	ClassStart        string              `json:"class_start"`
	ClassEnd          string              `json:"class_end"`
	LunchStart        string              `json:"lunch_start"`
	LunchEnd          string              `json:"lunch_end"`
	Breaks            []BreakItemResponse `json:"breaks"`
	PeriodBeforeLunch int                 `json:"period_before_lunch"`
	PeriodAfterLunch  int                 `json:"period_after_lunch"`
}
