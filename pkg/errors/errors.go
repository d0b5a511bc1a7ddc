package errors

import "errors"

// ── 远端 API 错误分类 ──
// apiclient 返回的错误通过 errors.Is 与以下哨兵值匹配

var (
	// ErrUpstreamUnavailable 远端服务不可达或超时
	ErrUpstreamUnavailable = errors.New("远端服务不可用")
	// ErrUpstreamNotFound 远端返回 404
	ErrUpstreamNotFound = errors.New("远端资源不存在")
	// ErrUpstreamUnauthorized 远端返回 401/403
	ErrUpstreamUnauthorized = errors.New("远端认证失败")
	// ErrUpstreamBadRequest 远端返回 400/422
	ErrUpstreamBadRequest = errors.New("远端拒绝请求参数")
	// ErrUpstreamInvalidResponse 远端响应无法解析
	ErrUpstreamInvalidResponse = errors.New("远端响应格式无效")
)
