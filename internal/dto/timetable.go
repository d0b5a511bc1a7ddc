package dto

import "timetable-console/internal/timetable"

// ── 课表模块 DTO ──

// GenerateTimetableRequest 生成课表请求
type GenerateTimetableRequest struct {
	Type       string `json:"type"       binding:"required,oneof=odd even"`
	Department string `json:"department" binding:"required,max=100"`
}

// TimetableViewResponse 单个学期的网格视图
type TimetableViewResponse struct {
	timetable.Grid
	IsActive bool `json:"is_active"`
}

// TimetableViewsResponse 多学期视图（生成结果 / 版本查看）
type TimetableViewsResponse struct {
	Type     string                  `json:"type,omitempty"`
	Version  int                     `json:"version,omitempty"`
	IsActive bool                    `json:"is_active"`
	Views    []TimetableViewResponse `json:"views"`
}

// TimetableSummaryResponse 课表列表项
type TimetableSummaryResponse struct {
	ID         string `json:"id"`
	Department string `json:"department"`
	Type       string `json:"type"`
	Version    int    `json:"version"`
	CreatedAt  string `json:"created_at"`
}

// ActiveTimetableResponse 当前生效版本
type ActiveTimetableResponse struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
}

// ExportICSRequest 日历导出参数
type ExportICSRequest struct {
	WeekStart string `form:"week_start" binding:"omitempty,datetime=2006-01-02"` // 首周周一，默认本周
	Weeks     int    `form:"weeks"      binding:"omitempty,min=1,max=30"`        // 重复周数，默认 16
}
