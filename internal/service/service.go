package service

import (
	"go.uber.org/zap"

	"timetable-console/config"
	"timetable-console/internal/repository"
	"timetable-console/pkg/jwt"
	"timetable-console/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth            AuthService
	Timetable       TimetableService
	PublicTimetable PublicTimetableService
	Subject         SubjectService
	Staff           StaffService
	Config          ConfigService
	Export          ExportService
}

// NewService 创建 Service 聚合
// rdb 为 nil 时登出不写黑名单、公共课表不缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	views := newViewBuilder(repo.Subject, cfg, logger)

	var (
		blacklist TokenBlacklist
		cache     JSONCache
	)
	if rdb != nil {
		blacklist = rdb
		cache = rdb
	}

	return &Service{
		Auth:            NewAuthService(repo, jwtMgr, blacklist, logger),
		Timetable:       NewTimetableService(repo, views, logger),
		PublicTimetable: NewPublicTimetableService(repo, views, cache, cfg.Cache.PublicTimetableTTL, logger),
		Subject:         NewSubjectService(repo, logger),
		Staff:           NewStaffService(repo, logger),
		Config:          NewConfigService(repo, logger),
		Export:          NewExportService(&cfg.Export, logger),
	}
}
