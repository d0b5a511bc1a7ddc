package model

// BreakItem 课间休息
type BreakItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleConfig 排课作息配置（学期级或全局）
// QCPCStart / QCPCEnd 仅在 QCPCEnabled 时有效
type ScheduleConfig struct {
	ID                string      `json:"_id,omitempty"`
	Semester          string      `json:"semester,omitempty"` // 数字字符串或 "global"
	StartOfDay        string      `json:"startOfDay"`
	QCPCEnabled       bool        `json:"qcpcEnabled"`
	QCPCStart         string      `json:"qcpcStart,omitempty"`
	QCPCEnd           string      `json:"qcpcEnd,omitempty"`
	ClassStart        string      `json:"classStart"`
	ClassEnd          string      `json:"classEnd"`
	LunchStart        string      `json:"lunchStart"`
	LunchEnd          string      `json:"lunchEnd"`
	Breaks            []BreakItem `json:"breaks"`
	PeriodBeforeLunch int         `json:"periodBeforeLunch,omitempty"`
	PeriodAfterLunch  int         `json:"periodAfterLunch,omitempty"`
}
