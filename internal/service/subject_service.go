package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrSubjectNotFound = errors.New("课程不存在")
)

// SubjectService 课程业务接口
type SubjectService interface {
	Create(ctx context.Context, req *dto.SubjectRequest) (*dto.SubjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SubjectResponse, error)
	List(ctx context.Context) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, id string, req *dto.SubjectRequest) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

func (s *subjectService) Create(ctx context.Context, req *dto.SubjectRequest) (*dto.SubjectResponse, error) {
	created, err := s.repo.Subject.Create(ctx, subjectFromRequest(req))
	if err != nil {
		s.logger.Error("创建课程失败", zap.String("subject_code", req.SubjectCode), zap.Error(err))
		return nil, err
	}
	resp := toSubjectResponse(created)
	return &resp, nil
}

func (s *subjectService) GetByID(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		return nil, upstreamError(err, ErrSubjectNotFound)
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func (s *subjectService) Update(ctx context.Context, id string, req *dto.SubjectRequest) (*dto.SubjectResponse, error) {
	updated, err := s.repo.Subject.Update(ctx, id, subjectFromRequest(req))
	if err != nil {
		return nil, upstreamError(err, ErrSubjectNotFound)
	}
	if updated.ID == "" {
		updated.ID = id
	}
	resp := toSubjectResponse(updated)
	return &resp, nil
}

func (s *subjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Subject.Delete(ctx, id); err != nil {
		return upstreamError(err, ErrSubjectNotFound)
	}
	return nil
}

func subjectFromRequest(req *dto.SubjectRequest) *model.Subject {
	subject := &model.Subject{
		SubjectName:    req.SubjectName,
		SubjectCode:    req.SubjectCode,
		SubjectType:    req.SubjectType,
		Faculty:        req.Faculty,
		PeriodsPerWeek: req.PeriodsPerWeek,
		Semester:       req.Semester,
		Department:     req.Department,
	}
	// 实验室名称只对实验课有意义
	if req.SubjectType == "Lab" {
		subject.LabName = req.LabName
	}
	return subject
}

func toSubjectResponse(s *model.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{
		ID:             s.ID,
		SubjectName:    s.SubjectName,
		SubjectCode:    s.SubjectCode,
		SubjectType:    s.SubjectType,
		Faculty:        s.Faculty,
		PeriodsPerWeek: s.PeriodsPerWeek,
		LabName:        s.LabName,
		Semester:       s.Semester,
		Department:     s.Department,
	}
}
