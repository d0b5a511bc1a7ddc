package repository

import "timetable-console/pkg/apiclient"

// Repository 所有 Repository 的聚合入口
// 数据均保存在远端排课服务，这里只做请求与响应适配
type Repository struct {
	Auth      AuthRepository
	Timetable TimetableRepository
	Subject   SubjectRepository
	Staff     StaffRepository
	Config    ConfigRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{
		Auth:      NewAuthRepo(client),
		Timetable: NewTimetableRepo(client),
		Subject:   NewSubjectRepo(client),
		Staff:     NewStaffRepo(client),
		Config:    NewConfigRepo(client),
	}
}
