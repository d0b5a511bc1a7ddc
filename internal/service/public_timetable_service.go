package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"timetable-console/internal/dto"
	"timetable-console/internal/repository"
	"timetable-console/pkg/redis"
)

var (
	ErrPublicTimetableNotFound = errors.New("公开课表不存在")
)

// JSONCache JSON 缓存（Redis 实现）
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// PublicTimetableService 免登录课表查询
type PublicTimetableService interface {
	Get(ctx context.Context, semester, department string) (*dto.TimetableViewResponse, error)
}

type publicTimetableService struct {
	repo   *repository.Repository
	views  *viewBuilder
	cache  JSONCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewPublicTimetableService 创建 PublicTimetableService 实例
// cache 为 nil 或 ttl<=0 时不缓存
func NewPublicTimetableService(
	repo *repository.Repository,
	views *viewBuilder,
	cache JSONCache,
	ttl time.Duration,
	logger *zap.Logger,
) PublicTimetableService {
	return &publicTimetableService{
		repo:   repo,
		views:  views,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func publicCacheKey(semester, department string) string {
	return fmt.Sprintf("ttc:public:timetable:%s:%s", semester, department)
}

func (s *publicTimetableService) Get(ctx context.Context, semester, department string) (*dto.TimetableViewResponse, error) {
	key := publicCacheKey(semester, department)
	caching := s.cache != nil && s.ttl > 0

	if caching {
		var cached dto.TimetableViewResponse
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取公开课表缓存失败", zap.String("key", key), zap.Error(err))
		}
	}

	block, err := s.repo.Timetable.GetPublic(ctx, semester, department)
	if err != nil {
		return nil, upstreamError(err, ErrPublicTimetableNotFound)
	}
	view := s.views.buildOne(ctx, block)

	if caching {
		if err := s.cache.SetJSON(ctx, key, view, s.ttl); err != nil {
			s.logger.Warn("写入公开课表缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return view, nil
}
