package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"timetable-console/config"
	"timetable-console/internal/api/handler"
	"timetable-console/internal/service"
	"timetable-console/pkg/jwt"
)

func newTestEngine(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{
			BodyLimit: 1 << 20,
			CORS:      config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
		},
		RateLimit: config.RateLimitConfig{PublicLimit: 10, PublicWindow: time.Minute},
	}
	jwtMgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "router-test-secret-0123456789", AccessTokenTTL: time.Hour})
	h := handler.NewHandler(&service.Service{})
	return Setup(cfg, h, jwtMgr, nil, zap.NewNop())
}

func TestSetup_Health(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestSetup_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestEngine(t)

	paths := []struct{ method, path string }{
		{"GET", "/api/v1/timetables"},
		{"GET", "/api/v1/timetables/3/CSE"},
		{"GET", "/api/v1/timetables/versions/odd/1"},
		{"GET", "/api/v1/timetables/active/odd"},
		{"GET", "/api/v1/timetables/3/CSE/export.xlsx"},
		{"GET", "/api/v1/timetables/3/CSE/export.ics"},
		{"PUT", "/api/v1/timetables/versions/odd/1/active"},
		{"POST", "/api/v1/subjects"},
		{"DELETE", "/api/v1/staff/F1"},
		{"GET", "/api/v1/config"},
		{"GET", "/api/v1/auth/me"},
	}

	for _, p := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}
