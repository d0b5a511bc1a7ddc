package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"timetable-console/internal/model"
	"timetable-console/pkg/apiclient"
)

// TimetableRepository 远端课表接口
type TimetableRepository interface {
	Generate(ctx context.Context, semType model.SemesterType, department string) ([]model.SemesterBlock, error)
	Get(ctx context.Context, semester, department string) (*model.SemesterBlock, error)
	List(ctx context.Context) ([]model.TimetableSummary, error)
	ListByVersion(ctx context.Context, semType model.SemesterType, version int) ([]model.SemesterBlock, error)
	SetActive(ctx context.Context, semType model.SemesterType, version int) error
	GetActive(ctx context.Context, semType model.SemesterType) (*model.TimetableSummary, error)
	Delete(ctx context.Context, semester, department string) error
	// GetPublic 无需登录的公共课表
	GetPublic(ctx context.Context, semester, department string) (*model.SemesterBlock, error)
}

type timetableRepo struct {
	client *apiclient.Client
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(client *apiclient.Client) TimetableRepository {
	return &timetableRepo{client: client}
}

func timetablePath(prefix, semester, department string) string {
	return fmt.Sprintf("%s/%s/%s", prefix,
		url.PathEscape(semesterPathValue(semester)), url.PathEscape(department))
}

func (r *timetableRepo) Generate(ctx context.Context, semType model.SemesterType, department string) ([]model.SemesterBlock, error) {
	body := map[string]string{"type": string(semType), "department": department}

	var raw json.RawMessage
	if err := r.client.Post(ctx, "/timetable/generate", body, &raw); err != nil {
		return nil, err
	}
	return decodeBlocks(raw)
}

func (r *timetableRepo) Get(ctx context.Context, semester, department string) (*model.SemesterBlock, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, timetablePath("/timetable", semester, department), &raw); err != nil {
		return nil, err
	}
	return decodeBlock(raw)
}

func (r *timetableRepo) List(ctx context.Context) ([]model.TimetableSummary, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/timetable", &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[rawSummary](raw, "timetables")
	if err != nil {
		return nil, err
	}

	result := make([]model.TimetableSummary, 0, len(items))
	for i := range items {
		result = append(result, toSummary(&items[i]))
	}
	return result, nil
}

func (r *timetableRepo) ListByVersion(ctx context.Context, semType model.SemesterType, version int) ([]model.SemesterBlock, error) {
	path := fmt.Sprintf("/timetable/versions/%s/%d", url.PathEscape(string(semType)), version)

	var raw json.RawMessage
	if err := r.client.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return decodeBlocks(raw)
}

func (r *timetableRepo) SetActive(ctx context.Context, semType model.SemesterType, version int) error {
	body := map[string]interface{}{"type": semType, "version": version}
	return r.client.Put(ctx, "/timetable/active", body, nil)
}

func (r *timetableRepo) GetActive(ctx context.Context, semType model.SemesterType) (*model.TimetableSummary, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/timetable/active/"+url.PathEscape(string(semType)), &raw); err != nil {
		return nil, err
	}
	rs, err := decodeItem[rawSummary](raw, "timetable")
	if err != nil {
		return nil, err
	}
	summary := toSummary(rs)
	if summary.Type == "" {
		summary.Type = semType
	}
	return &summary, nil
}

func (r *timetableRepo) Delete(ctx context.Context, semester, department string) error {
	return r.client.Delete(ctx, timetablePath("/timetable", semester, department), nil)
}

func (r *timetableRepo) GetPublic(ctx context.Context, semester, department string) (*model.SemesterBlock, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, timetablePath("/timetable/public", semester, department), &raw); err != nil {
		return nil, err
	}
	return decodeBlock(raw)
}
