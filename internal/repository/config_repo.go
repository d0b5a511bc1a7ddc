package repository

import (
	"context"
	"encoding/json"
	"net/url"

	"timetable-console/internal/model"
	"timetable-console/pkg/apiclient"
)

// ConfigRepository 远端作息配置接口
type ConfigRepository interface {
	Create(ctx context.Context, cfg *model.ScheduleConfig) (*model.ScheduleConfig, error)
	GetByID(ctx context.Context, id string) (*model.ScheduleConfig, error)
	List(ctx context.Context) ([]model.ScheduleConfig, error)
	Update(ctx context.Context, id string, cfg *model.ScheduleConfig) (*model.ScheduleConfig, error)
	Delete(ctx context.Context, id string) error
}

type configRepo struct {
	client *apiclient.Client
}

// NewConfigRepo 创建 ConfigRepository 实例
func NewConfigRepo(client *apiclient.Client) ConfigRepository {
	return &configRepo{client: client}
}

// rawConfig 与 ScheduleConfig 一致，仅 semester / break id 可能是数字
type rawConfig struct {
	model.ScheduleConfig
	Semester json.RawMessage `json:"semester"`
	Breaks   []struct {
		ID    json.RawMessage `json:"id"`
		Name  string          `json:"name"`
		Start string          `json:"start"`
		End   string          `json:"end"`
	} `json:"breaks"`
}

func (rc *rawConfig) toModel() model.ScheduleConfig {
	cfg := rc.ScheduleConfig
	cfg.Semester = semesterString(rc.Semester)
	cfg.Breaks = make([]model.BreakItem, 0, len(rc.Breaks))
	for _, b := range rc.Breaks {
		cfg.Breaks = append(cfg.Breaks, model.BreakItem{
			ID:    semesterString(b.ID),
			Name:  b.Name,
			Start: b.Start,
			End:   b.End,
		})
	}
	return cfg
}

func decodeConfig(raw json.RawMessage) (*model.ScheduleConfig, error) {
	rc, err := decodeItem[rawConfig](raw, "config")
	if err != nil {
		return nil, err
	}
	cfg := rc.toModel()
	return &cfg, nil
}

func (r *configRepo) Create(ctx context.Context, cfg *model.ScheduleConfig) (*model.ScheduleConfig, error) {
	var raw json.RawMessage
	if err := r.client.Post(ctx, "/config", cfg, &raw); err != nil {
		return nil, err
	}
	return decodeConfig(raw)
}

func (r *configRepo) GetByID(ctx context.Context, id string) (*model.ScheduleConfig, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/config/"+url.PathEscape(id), &raw); err != nil {
		return nil, err
	}
	return decodeConfig(raw)
}

func (r *configRepo) List(ctx context.Context) ([]model.ScheduleConfig, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/config", &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[rawConfig](raw, "configs")
	if err != nil {
		return nil, err
	}
	result := make([]model.ScheduleConfig, 0, len(items))
	for i := range items {
		result = append(result, items[i].toModel())
	}
	return result, nil
}

func (r *configRepo) Update(ctx context.Context, id string, cfg *model.ScheduleConfig) (*model.ScheduleConfig, error) {
	var raw json.RawMessage
	if err := r.client.Put(ctx, "/config/"+url.PathEscape(id), cfg, &raw); err != nil {
		return nil, err
	}
	return decodeConfig(raw)
}

func (r *configRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "/config/"+url.PathEscape(id), nil)
}
