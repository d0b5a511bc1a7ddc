package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/repository"
)

var (
	ErrStaffNotFound = errors.New("教职工不存在")
)

// StaffService 教职工业务接口
type StaffService interface {
	Create(ctx context.Context, req *dto.StaffRequest) (*dto.StaffResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StaffResponse, error)
	List(ctx context.Context) ([]dto.StaffResponse, error)
	Update(ctx context.Context, id string, req *dto.StaffRequest) (*dto.StaffResponse, error)
	Delete(ctx context.Context, id string) error
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

func (s *staffService) Create(ctx context.Context, req *dto.StaffRequest) (*dto.StaffResponse, error) {
	created, err := s.repo.Staff.Create(ctx, staffFromRequest(req))
	if err != nil {
		s.logger.Error("创建教职工失败", zap.Error(err))
		return nil, err
	}
	resp := toStaffResponse(created)
	return &resp, nil
}

func (s *staffService) GetByID(ctx context.Context, id string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, ErrStaffNotFound)
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}

func (s *staffService) List(ctx context.Context) ([]dto.StaffResponse, error) {
	list, err := s.repo.Staff.List(ctx)
	if err != nil {
		s.logger.Error("查询教职工列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		result = append(result, toStaffResponse(&list[i]))
	}
	return result, nil
}

func (s *staffService) Update(ctx context.Context, id string, req *dto.StaffRequest) (*dto.StaffResponse, error) {
	updated, err := s.repo.Staff.Update(ctx, id, staffFromRequest(req))
	if err != nil {
		return nil, upstreamError(err, ErrStaffNotFound)
	}
	if updated.ID == "" {
		updated.ID = id
	}
	resp := toStaffResponse(updated)
	return &resp, nil
}

func (s *staffService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Staff.Delete(ctx, id); err != nil {
		return upstreamError(err, ErrStaffNotFound)
	}
	return nil
}

func staffFromRequest(req *dto.StaffRequest) *model.Staff {
	return &model.Staff{
		Name:        strings.TrimSpace(req.Name),
		Department:  req.Department,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		Designation: req.Designation,
	}
}

func toStaffResponse(s *model.Staff) dto.StaffResponse {
	return dto.StaffResponse{
		ID:          s.ID,
		Name:        s.Name,
		Department:  s.Department,
		Email:       s.Email,
		Phone:       s.Phone,
		Designation: s.Designation,
	}
}
