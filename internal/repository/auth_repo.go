package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"timetable-console/internal/model"
	"timetable-console/pkg/apiclient"
	apperr "timetable-console/pkg/errors"
)

// LoginResult 远端登录结果
type LoginResult struct {
	Token   string
	Profile model.Profile
}

// AuthRepository 远端认证接口
type AuthRepository interface {
	Login(ctx context.Context, role, email, password string) (*LoginResult, error)
	Profile(ctx context.Context, role string) (*model.Profile, error)
}

type authRepo struct {
	client *apiclient.Client
}

// NewAuthRepo 创建 AuthRepository 实例
func NewAuthRepo(client *apiclient.Client) AuthRepository {
	return &authRepo{client: client}
}

func (r *authRepo) Login(ctx context.Context, role, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string         `json:"token"`
		User  *model.Profile `json:"user"`
		Admin *model.Profile `json:"admin"`
		Staff *model.Profile `json:"staff"`
	}
	if err := r.client.Post(ctx, fmt.Sprintf("/auth/%s/login", role), body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: 登录响应缺少 token", apperr.ErrUpstreamInvalidResponse)
	}

	result := &LoginResult{Token: resp.Token, Profile: model.Profile{Email: email}}
	for _, p := range []*model.Profile{resp.User, resp.Admin, resp.Staff} {
		if p != nil {
			result.Profile = *p
			if result.Profile.Email == "" {
				result.Profile.Email = email
			}
			break
		}
	}
	return result, nil
}

func (r *authRepo) Profile(ctx context.Context, role string) (*model.Profile, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, fmt.Sprintf("/auth/%s/profile", role), &raw); err != nil {
		return nil, err
	}
	return decodeItem[model.Profile](raw, role)
}
