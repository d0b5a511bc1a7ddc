package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/repository"
	apperr "timetable-console/pkg/errors"
	"timetable-console/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidRole        = errors.New("不支持的登录角色")
)

// TokenBlacklist 会话 Token 黑名单（Redis 实现）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	// Login 远端校验账号密码，成功后签发控制台 Token（内含远端 Token）
	Login(ctx context.Context, role string, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	// Profile ctx 需携带远端 Token
	Profile(ctx context.Context, claims *jwt.Claims) (*dto.ProfileResponse, error)
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例，blacklist 可为 nil
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, role string, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if role != model.RoleAdmin && role != model.RoleStaff {
		return nil, ErrInvalidRole
	}

	// 1. 远端校验
	result, err := s.repo.Auth.Login(ctx, role, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUpstreamUnauthorized) || errors.Is(err, apperr.ErrUpstreamBadRequest) ||
			errors.Is(err, apperr.ErrUpstreamNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("远端登录失败", zap.String("role", role), zap.Error(err))
		return nil, err
	}

	// 2. 签发控制台 Token
	accessToken, err := s.jwtMgr.GenerateAccessToken(result.Profile.ID, result.Profile.Email, role, result.Token)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toProfileResponse(&result.Profile, role),
	}, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("写入 Token 黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Profile(ctx context.Context, claims *jwt.Claims) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Auth.Profile(ctx, claims.Role)
	if err != nil {
		s.logger.Warn("获取远端用户资料失败", zap.String("role", claims.Role), zap.Error(err))
		return nil, err
	}
	if profile.Email == "" {
		profile.Email = claims.Email
	}
	resp := toProfileResponse(profile, claims.Role)
	return &resp, nil
}

func toProfileResponse(p *model.Profile, role string) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Department: p.Department,
		Role:       role,
	}
}
