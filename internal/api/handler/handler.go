package handler

import "timetable-console/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth            *AuthHandler
	Timetable       *TimetableHandler
	PublicTimetable *PublicTimetableHandler
	Subject         *SubjectHandler
	Staff           *StaffHandler
	Config          *ConfigHandler
	Export          *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:            NewAuthHandler(svc.Auth),
		Timetable:       NewTimetableHandler(svc.Timetable),
		PublicTimetable: NewPublicTimetableHandler(svc.PublicTimetable),
		Subject:         NewSubjectHandler(svc.Subject),
		Staff:           NewStaffHandler(svc.Staff),
		Config:          NewConfigHandler(svc.Config),
		Export:          NewExportHandler(svc.Timetable, svc.Export),
	}
}
