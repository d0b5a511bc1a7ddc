package repository

import (
	"context"
	"encoding/json"
	"net/url"

	"timetable-console/internal/model"
	"timetable-console/pkg/apiclient"
)

// SubjectRepository 远端课程接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) (*model.Subject, error)
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	List(ctx context.Context) ([]model.Subject, error)
	Update(ctx context.Context, id string, subject *model.Subject) (*model.Subject, error)
	Delete(ctx context.Context, id string) error
	// GetSubjectDetails 课程详情（含教师信息），供标签解析使用
	GetSubjectDetails(ctx context.Context, id string) (*model.SubjectDetails, error)
}

type subjectRepo struct {
	client *apiclient.Client
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(client *apiclient.Client) SubjectRepository {
	return &subjectRepo{client: client}
}

func subjectPath(id string) string {
	return "/subjects/" + url.PathEscape(id)
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) (*model.Subject, error) {
	var raw json.RawMessage
	if err := r.client.Post(ctx, "/subjects", subject, &raw); err != nil {
		return nil, err
	}
	return decodeSubject(raw)
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, subjectPath(id), &raw); err != nil {
		return nil, err
	}
	return decodeSubject(raw)
}

func (r *subjectRepo) List(ctx context.Context) ([]model.Subject, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/subjects", &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[rawSubject](raw, "subjects")
	if err != nil {
		return nil, err
	}
	result := make([]model.Subject, 0, len(items))
	for i := range items {
		result = append(result, items[i].toModel())
	}
	return result, nil
}

func (r *subjectRepo) Update(ctx context.Context, id string, subject *model.Subject) (*model.Subject, error) {
	var raw json.RawMessage
	if err := r.client.Put(ctx, subjectPath(id), subject, &raw); err != nil {
		return nil, err
	}
	return decodeSubject(raw)
}

func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, subjectPath(id), nil)
}

func (r *subjectRepo) GetSubjectDetails(ctx context.Context, id string) (*model.SubjectDetails, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, subjectPath(id), &raw); err != nil {
		return nil, err
	}
	rs, err := decodeItem[rawSubject](raw, "subject")
	if err != nil {
		return nil, err
	}

	return rs.details(), nil
}

// rawSubject 课程详情：faculty 可能是 ID 字符串，也可能已展开为对象
type rawSubject struct {
	ID             string          `json:"_id"`
	SubjectName    string          `json:"subjectName"`
	SubjectCode    string          `json:"subjectCode"`
	Code           string          `json:"code"`
	SubjectType    string          `json:"subjectType"`
	Faculty        json.RawMessage `json:"faculty"`
	PeriodsPerWeek int             `json:"periodsPerWeek"`
	LabName        string          `json:"labName"`
	Semester       json.RawMessage `json:"semester"`
	Department     string          `json:"department"`
}

func (rs *rawSubject) faculty() model.FacultyRef {
	var id string
	if err := json.Unmarshal(rs.Faculty, &id); err == nil {
		return model.FacultyRef{ID: id}
	}
	var ref model.FacultyRef
	_ = json.Unmarshal(rs.Faculty, &ref)
	return ref
}

func (rs *rawSubject) details() *model.SubjectDetails {
	details := &model.SubjectDetails{
		SubjectCode: rs.SubjectCode,
		Code:        rs.Code,
		SubjectName: rs.SubjectName,
	}
	if f := rs.faculty(); f.ID != "" || f.Name != "" {
		details.Faculty = &f
	}
	return details
}

func (rs *rawSubject) toModel() model.Subject {
	code := rs.SubjectCode
	if code == "" {
		code = rs.Code
	}
	return model.Subject{
		ID:             rs.ID,
		SubjectName:    rs.SubjectName,
		SubjectCode:    code,
		SubjectType:    rs.SubjectType,
		Faculty:        rs.faculty().ID,
		PeriodsPerWeek: rs.PeriodsPerWeek,
		LabName:        rs.LabName,
		Semester:       semesterString(rs.Semester),
		Department:     rs.Department,
	}
}

func decodeSubject(raw json.RawMessage) (*model.Subject, error) {
	rs, err := decodeItem[rawSubject](raw, "subject")
	if err != nil {
		return nil, err
	}
	s := rs.toModel()
	return &s, nil
}
