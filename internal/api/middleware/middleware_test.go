package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"timetable-console/config"
	"timetable-console/pkg/apiclient"
	"timetable-console/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	calls   int
	allowed int
	err     error
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	f.calls++
	return f.calls <= f.allowed, f.err
}

func newTestManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "middleware-test-secret-0123456789",
		AccessTokenTTL: time.Hour,
	})
}

func issue(t *testing.T, m *jwt.Manager, role string) (string, *jwt.Claims) {
	t.Helper()
	token, err := m.GenerateAccessToken("u-1", role+"@college.edu", role, "upstream-"+role)
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}
	return token, claims
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_InjectsUpstreamToken(t *testing.T) {
	m := newTestManager()
	token, _ := issue(t, m, "staff")

	var forwarded string
	r := gin.New()
	r.GET("/me", JWTAuth(m, nil), func(c *gin.Context) {
		forwarded = apiclient.TokenFrom(c.Request.Context())
		if _, ok := c.Get("claims"); !ok {
			t.Error("claims 未注入")
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, "GET", "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if forwarded != "upstream-staff" {
		t.Errorf("期望透传 upstream-staff，实际 %q", forwarded)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	m := newTestManager()
	token, claims := issue(t, m, "admin")

	tests := []struct {
		name      string
		header    string
		blacklist TokenChecker
	}{
		{"missing header", "", nil},
		{"not bearer", "Token " + token, nil},
		{"garbage", "Bearer abc.def.ghi", nil},
		{"revoked", "Bearer " + token, &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", JWTAuth(m, tt.blacklist), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("期望 401，实际 %d", w.Code)
			}
		})
	}
}

func TestJWTAuth_BlacklistErrorFailsOpen(t *testing.T) {
	m := newTestManager()
	token, _ := issue(t, m, "admin")

	r := gin.New()
	r.GET("/x", JWTAuth(m, &fakeBlacklist{err: errors.New("redis down")}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := serve(r, "GET", "/x", token); w.Code != http.StatusOK {
		t.Errorf("Redis 故障时应放行，实际 %d", w.Code)
	}
}

func TestRoleAuth(t *testing.T) {
	m := newTestManager()
	adminToken, _ := issue(t, m, "admin")
	staffToken, _ := issue(t, m, "staff")

	r := gin.New()
	r.POST("/generate", JWTAuth(m, nil), RoleAuth("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, "POST", "/generate", adminToken); w.Code != http.StatusOK {
		t.Errorf("admin 期望 200，实际 %d", w.Code)
	}
	if w := serve(r, "POST", "/generate", staffToken); w.Code != http.StatusForbidden {
		t.Errorf("staff 期望 403，实际 %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{allowed: 2}
	r := gin.New()
	r.GET("/public", RateLimit(limiter, 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, "GET", "/public", ""); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次请求期望 200，实际 %d", i+1, w.Code)
		}
	}
	w := serve(r, "GET", "/public", "")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("期望 429，实际 %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After 错误: %q", w.Header().Get("Retry-After"))
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.GET("/public", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if w := serve(r, "GET", "/public", ""); w.Code != http.StatusOK {
			t.Fatalf("未配置限流器时应放行，实际 %d", w.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		seen = c.GetString(requestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	if seen != "abc-123" || w.Header().Get(requestIDHeader) != "abc-123" {
		t.Errorf("应沿用传入的 Request-ID，实际 %q", seen)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", requestIDMaxLen+1))
	r.ServeHTTP(w, req)
	if len(seen) != 36 {
		t.Errorf("超长 Request-ID 应重新生成 UUID，实际 %q", seen)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/x", strings.NewReader(`{"k":"0123456789"}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检期望 204，实际 %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("Allow-Origin 错误: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition") {
		t.Error("应暴露 Content-Disposition")
	}
}
