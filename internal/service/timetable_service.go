package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/repository"
	apperr "timetable-console/pkg/errors"
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableNotFound   = errors.New("课表不存在")
	ErrNoTimetableData     = errors.New("未获取到课表数据")
	ErrInvalidSemesterType = errors.New("学期类型只能是 odd 或 even")
	ErrInvalidVersion      = errors.New("版本号必须为正整数")
)

// TimetableService 课表业务接口
//
// 所有视图在服务端完成投影：时间段列推导、条目查找、课程名称解析。
// 远端任一步失败即返回错误，不返回半成品视图。
type TimetableService interface {
	// Generate 生成课表，返回该学期类型下各学期的视图
	Generate(ctx context.Context, req *dto.GenerateTimetableRequest) (*dto.TimetableViewsResponse, error)
	GetView(ctx context.Context, semester, department string) (*dto.TimetableViewResponse, error)
	List(ctx context.Context) ([]dto.TimetableSummaryResponse, error)
	// GetVersion 查看某个版本，附带是否为当前生效版本
	GetVersion(ctx context.Context, semType string, version int) (*dto.TimetableViewsResponse, error)
	SetActive(ctx context.Context, semType string, version int) error
	GetActive(ctx context.Context, semType string) (*dto.ActiveTimetableResponse, error)
	Delete(ctx context.Context, semester, department string) error
}

type timetableService struct {
	repo   *repository.Repository
	views  *viewBuilder
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, views *viewBuilder, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, views: views, logger: logger}
}

func parseSemesterType(s string) (model.SemesterType, error) {
	t := model.SemesterType(s)
	if !t.Valid() {
		return "", ErrInvalidSemesterType
	}
	return t, nil
}

// ────────────────────── Generate ──────────────────────

func (s *timetableService) Generate(ctx context.Context, req *dto.GenerateTimetableRequest) (*dto.TimetableViewsResponse, error) {
	semType, err := parseSemesterType(req.Type)
	if err != nil {
		return nil, err
	}

	blocks, err := s.repo.Timetable.Generate(ctx, semType, req.Department)
	if err != nil {
		s.logger.Error("生成课表失败",
			zap.String("type", req.Type),
			zap.String("department", req.Department),
			zap.Error(err),
		)
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrNoTimetableData
	}

	s.logger.Info("课表生成成功",
		zap.String("type", req.Type),
		zap.String("department", req.Department),
		zap.Int("semesters", len(blocks)),
	)

	return &dto.TimetableViewsResponse{
		Type:  req.Type,
		Views: s.views.build(ctx, blocks),
	}, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *timetableService) GetView(ctx context.Context, semester, department string) (*dto.TimetableViewResponse, error) {
	block, err := s.repo.Timetable.Get(ctx, semester, department)
	if err != nil {
		return nil, upstreamError(err, ErrTimetableNotFound)
	}
	return s.views.buildOne(ctx, block), nil
}

func (s *timetableService) List(ctx context.Context) ([]dto.TimetableSummaryResponse, error) {
	items, err := s.repo.Timetable.List(ctx)
	if err != nil {
		s.logger.Error("查询课表列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimetableSummaryResponse, 0, len(items))
	for _, it := range items {
		result = append(result, dto.TimetableSummaryResponse{
			ID:         it.ID,
			Department: it.Department,
			Type:       string(it.Type),
			Version:    it.Version,
			CreatedAt:  it.CreatedAt,
		})
	}
	return result, nil
}

func (s *timetableService) GetVersion(ctx context.Context, semType string, version int) (*dto.TimetableViewsResponse, error) {
	t, err := parseSemesterType(semType)
	if err != nil {
		return nil, err
	}
	if version <= 0 {
		return nil, ErrInvalidVersion
	}

	blocks, err := s.repo.Timetable.ListByVersion(ctx, t, version)
	if err != nil {
		return nil, upstreamError(err, ErrTimetableNotFound)
	}
	if len(blocks) == 0 {
		return nil, ErrNoTimetableData
	}

	// 没有生效版本不算错误
	isActive := false
	active, err := s.repo.Timetable.GetActive(ctx, t)
	switch {
	case err == nil:
		isActive = active.Version == version
	case errors.Is(err, apperr.ErrUpstreamNotFound):
	default:
		return nil, err
	}

	return &dto.TimetableViewsResponse{
		Type:     semType,
		Version:  version,
		IsActive: isActive,
		Views:    s.views.build(ctx, blocks),
	}, nil
}

func (s *timetableService) GetActive(ctx context.Context, semType string) (*dto.ActiveTimetableResponse, error) {
	t, err := parseSemesterType(semType)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.Timetable.GetActive(ctx, t)
	if err != nil {
		return nil, upstreamError(err, ErrTimetableNotFound)
	}
	return &dto.ActiveTimetableResponse{Type: string(t), Version: active.Version}, nil
}

// ────────────────────── 变更 ──────────────────────

func (s *timetableService) SetActive(ctx context.Context, semType string, version int) error {
	t, err := parseSemesterType(semType)
	if err != nil {
		return err
	}
	if version <= 0 {
		return ErrInvalidVersion
	}
	if err := s.repo.Timetable.SetActive(ctx, t, version); err != nil {
		return upstreamError(err, ErrTimetableNotFound)
	}
	s.logger.Info("切换生效课表", zap.String("type", semType), zap.Int("version", version))
	return nil
}

func (s *timetableService) Delete(ctx context.Context, semester, department string) error {
	if err := s.repo.Timetable.Delete(ctx, semester, department); err != nil {
		return upstreamError(err, ErrTimetableNotFound)
	}
	s.logger.Info("删除课表", zap.String("semester", semester), zap.String("department", department))
	return nil
}
