package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/repository"
)

// ── 作息配置模块业务错误 ──

var (
	ErrConfigNotFound     = errors.New("作息配置不存在")
	ErrConfigInvalidTime  = errors.New("时间格式必须为 HH:MM")
	ErrConfigWindowOrder  = errors.New("开始时间必须早于结束时间")
	ErrConfigQCPCRequired = errors.New("启用 QCPC 时必须填写开始和结束时间")
)

// ConfigService 作息配置业务接口
type ConfigService interface {
	Create(ctx context.Context, req *dto.ScheduleConfigRequest) (*dto.ScheduleConfigResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScheduleConfigResponse, error)
	List(ctx context.Context) ([]dto.ScheduleConfigResponse, error)
	Update(ctx context.Context, id string, req *dto.ScheduleConfigRequest) (*dto.ScheduleConfigResponse, error)
	Delete(ctx context.Context, id string) error
}

type configService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConfigService 创建 ConfigService 实例
func NewConfigService(repo *repository.Repository, logger *zap.Logger) ConfigService {
	return &configService{repo: repo, logger: logger}
}

func (s *configService) Create(ctx context.Context, req *dto.ScheduleConfigRequest) (*dto.ScheduleConfigResponse, error) {
	if err := ValidateScheduleConfig(req); err != nil {
		return nil, err
	}
	created, err := s.repo.Config.Create(ctx, configFromRequest(req))
	if err != nil {
		s.logger.Error("创建作息配置失败", zap.String("semester", req.Semester), zap.Error(err))
		return nil, err
	}
	resp := toConfigResponse(created)
	return &resp, nil
}

func (s *configService) GetByID(ctx context.Context, id string) (*dto.ScheduleConfigResponse, error) {
	cfg, err := s.repo.Config.GetByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, ErrConfigNotFound)
	}
	resp := toConfigResponse(cfg)
	return &resp, nil
}

func (s *configService) List(ctx context.Context) ([]dto.ScheduleConfigResponse, error) {
	list, err := s.repo.Config.List(ctx)
	if err != nil {
		s.logger.Error("查询作息配置失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ScheduleConfigResponse, 0, len(list))
	for i := range list {
		result = append(result, toConfigResponse(&list[i]))
	}
	return result, nil
}

func (s *configService) Update(ctx context.Context, id string, req *dto.ScheduleConfigRequest) (*dto.ScheduleConfigResponse, error) {
	if err := ValidateScheduleConfig(req); err != nil {
		return nil, err
	}
	updated, err := s.repo.Config.Update(ctx, id, configFromRequest(req))
	if err != nil {
		return nil, upstreamError(err, ErrConfigNotFound)
	}
	if updated.ID == "" {
		updated.ID = id
	}
	resp := toConfigResponse(updated)
	return &resp, nil
}

func (s *configService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Config.Delete(ctx, id); err != nil {
		return upstreamError(err, ErrConfigNotFound)
	}
	return nil
}

// ValidateScheduleConfig 校验作息配置的时间字段
//   - 所有时间为 HH:MM
//   - 每个时间窗口 start < end
//   - 启用 QCPC 时 qcpc_start / qcpc_end 必填
func ValidateScheduleConfig(req *dto.ScheduleConfigRequest) error {
	if _, ok := model.ParseClock(req.StartOfDay); !ok {
		return fmt.Errorf("%w: start_of_day", ErrConfigInvalidTime)
	}

	type namedWindow struct {
		name string
		model.TimeWindow
	}
	windows := []namedWindow{
		{"class", model.TimeWindow{Start: req.ClassStart, End: req.ClassEnd}},
		{"lunch", model.TimeWindow{Start: req.LunchStart, End: req.LunchEnd}},
	}
	if req.QCPCEnabled {
		if req.QCPCStart == "" || req.QCPCEnd == "" {
			return ErrConfigQCPCRequired
		}
		windows = append(windows, namedWindow{"qcpc", model.TimeWindow{Start: req.QCPCStart, End: req.QCPCEnd}})
	}
	for _, b := range req.Breaks {
		windows = append(windows, namedWindow{"break " + b.Name, model.TimeWindow{Start: b.Start, End: b.End}})
	}

	for _, w := range windows {
		if _, _, ok := w.Minutes(); !ok {
			return fmt.Errorf("%w: %s", ErrConfigInvalidTime, w.name)
		}
		if !w.Valid() {
			return fmt.Errorf("%w: %s", ErrConfigWindowOrder, w.name)
		}
	}
	return nil
}

func configFromRequest(req *dto.ScheduleConfigRequest) *model.ScheduleConfig {
	cfg := &model.ScheduleConfig{
		Semester:          req.Semester,
		StartOfDay:        req.StartOfDay,
		QCPCEnabled:       req.QCPCEnabled,
		ClassStart:        req.ClassStart,
		ClassEnd:          req.ClassEnd,
		LunchStart:        req.LunchStart,
		LunchEnd:          req.LunchEnd,
		Breaks:            make([]model.BreakItem, 0, len(req.Breaks)),
		PeriodBeforeLunch: req.PeriodBeforeLunch,
		PeriodAfterLunch:  req.PeriodAfterLunch,
	}
	if cfg.Semester == "" {
		cfg.Semester = model.SemesterGlobal
	}
	if req.QCPCEnabled {
		cfg.QCPCStart = req.QCPCStart
		cfg.QCPCEnd = req.QCPCEnd
	}
	for i, b := range req.Breaks {
		id := b.ID
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		cfg.Breaks = append(cfg.Breaks, model.BreakItem{ID: id, Name: b.Name, Start: b.Start, End: b.End})
	}
	return cfg
}

func toConfigResponse(c *model.ScheduleConfig) dto.ScheduleConfigResponse {
	breaks := make([]dto.BreakItemResponse, 0, len(c.Breaks))
	for _, b := range c.Breaks {
		breaks = append(breaks, dto.BreakItemResponse{ID: b.ID, Name: b.Name, Start: b.Start, End: b.End})
	}
	semester := c.Semester
	if semester == "" {
		semester = model.SemesterGlobal
	}
	return dto.ScheduleConfigResponse{
		ID:                c.ID,
		Semester:          semester,
		StartOfDay:        c.StartOfDay,
		QCPCEnabled:       c.QCPCEnabled,
		QCPCStart:         c.QCPCStart,
		QCPCEnd:           c.QCPCEnd,
		ClassStart:        c.ClassStart,
		ClassEnd:          c.ClassEnd,
		LunchStart:        c.LunchStart,
		LunchEnd:          c.LunchEnd,
		Breaks:            breaks,
		PeriodBeforeLunch: c.PeriodBeforeLunch,
		PeriodAfterLunch:  c.PeriodAfterLunch,
	}
}
