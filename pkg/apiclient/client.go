// Package apiclient 远端排课 API 的 HTTP 客户端
//
// 所有业务数据（课表生成、课程、教职工、作息配置）都保存在远端服务，
// 本包只负责传输：拼接 URL、透传用户 Token、编解码 JSON、归类错误。
// 响应结构的适配在 repository 层完成。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"timetable-console/config"
	apperr "timetable-console/pkg/errors"
)

const maxErrorBody = 4 << 10

// Error 远端返回的非 2xx 响应
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap 将状态码映射为哨兵错误，便于 errors.Is 判断
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return apperr.ErrUpstreamNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return apperr.ErrUpstreamUnauthorized
	case e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity ||
		e.StatusCode == http.StatusConflict:
		return apperr.ErrUpstreamBadRequest
	case e.StatusCode >= 500:
		return apperr.ErrUpstreamUnavailable
	}
	return nil
}

// ── Token 透传 ──

type tokenKey struct{}

// WithToken 将远端 Token 放入 context，后续请求自动携带 Authorization 头
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom 读取 context 中的远端 Token
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}

// Client 远端 API 客户端
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New 创建客户端
func New(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: timeout}, logger)
}

// NewWithHTTPClient 使用自定义 http.Client 创建客户端
func NewWithHTTPClient(baseURL string, hc *http.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// Get 发送 GET 请求并将响应解码到 out（out 可为 nil）
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post 发送 POST 请求
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put 发送 PUT 请求
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete 发送 DELETE 请求
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do 执行一次请求（不重试）
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("编码请求体失败: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("远端请求失败",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", apperr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("远端请求完成",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
	}
	return nil
}

// errorMessage 兼容 {"message": ...} / {"error": ...} / 纯文本 三种错误体
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
