package repository

import (
	"context"
	"encoding/json"
	"net/url"

	"timetable-console/internal/model"
	"timetable-console/pkg/apiclient"
)

// StaffRepository 远端教职工接口
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) (*model.Staff, error)
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	List(ctx context.Context) ([]model.Staff, error)
	Update(ctx context.Context, id string, staff *model.Staff) (*model.Staff, error)
	Delete(ctx context.Context, id string) error
}

type staffRepo struct {
	client *apiclient.Client
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(client *apiclient.Client) StaffRepository {
	return &staffRepo{client: client}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) (*model.Staff, error) {
	var raw json.RawMessage
	if err := r.client.Post(ctx, "/staff", staff, &raw); err != nil {
		return nil, err
	}
	return decodeItem[model.Staff](raw, "staff")
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/staff/"+url.PathEscape(id), &raw); err != nil {
		return nil, err
	}
	return decodeItem[model.Staff](raw, "staff")
}

func (r *staffRepo) List(ctx context.Context) ([]model.Staff, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, "/staff", &raw); err != nil {
		return nil, err
	}
	return decodeList[model.Staff](raw, "staff")
}

func (r *staffRepo) Update(ctx context.Context, id string, staff *model.Staff) (*model.Staff, error) {
	var raw json.RawMessage
	if err := r.client.Put(ctx, "/staff/"+url.PathEscape(id), staff, &raw); err != nil {
		return nil, err
	}
	return decodeItem[model.Staff](raw, "staff")
}

func (r *staffRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "/staff/"+url.PathEscape(id), nil)
}
