package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/service"
	"timetable-console/internal/timetable"
	"timetable-console/pkg/apiclient"
	"timetable-console/pkg/jwt"
	"timetable-console/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginRole     string
	loginResult   *dto.TokenResponse
	loginErr      error
	logoutErr     error
	logoutCalled  bool
	profileResult *dto.ProfileResponse
	profileErr    error
}

func (m *mockAuthService) Login(_ context.Context, role string, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	m.loginRole = role
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	m.logoutCalled = true
	return m.logoutErr
}
func (m *mockAuthService) Profile(_ context.Context, _ *jwt.Claims) (*dto.ProfileResponse, error) {
	return m.profileResult, m.profileErr
}

// ── Mock TimetableService ──

type mockTimetableService struct {
	generateResult *dto.TimetableViewsResponse
	generateErr    error
	view           *dto.TimetableViewResponse
	viewErr        error
	list           []dto.TimetableSummaryResponse
	listErr        error
	versionResult  *dto.TimetableViewsResponse
	versionErr     error
	setActiveErr   error
	activeResult   *dto.ActiveTimetableResponse
	activeErr      error
	deleteErr      error

	gotSemester   string
	gotDepartment string
	gotVersion    int
}

func (m *mockTimetableService) Generate(_ context.Context, _ *dto.GenerateTimetableRequest) (*dto.TimetableViewsResponse, error) {
	return m.generateResult, m.generateErr
}
func (m *mockTimetableService) GetView(_ context.Context, semester, department string) (*dto.TimetableViewResponse, error) {
	m.gotSemester, m.gotDepartment = semester, department
	return m.view, m.viewErr
}
func (m *mockTimetableService) List(_ context.Context) ([]dto.TimetableSummaryResponse, error) {
	return m.list, m.listErr
}
func (m *mockTimetableService) GetVersion(_ context.Context, _ string, version int) (*dto.TimetableViewsResponse, error) {
	m.gotVersion = version
	return m.versionResult, m.versionErr
}
func (m *mockTimetableService) SetActive(_ context.Context, _ string, version int) error {
	m.gotVersion = version
	return m.setActiveErr
}
func (m *mockTimetableService) GetActive(_ context.Context, _ string) (*dto.ActiveTimetableResponse, error) {
	return m.activeResult, m.activeErr
}
func (m *mockTimetableService) Delete(_ context.Context, semester, department string) error {
	m.gotSemester, m.gotDepartment = semester, department
	return m.deleteErr
}

// ── Mock PublicTimetableService ──

type mockPublicTimetableService struct {
	view *dto.TimetableViewResponse
	err  error
}

func (m *mockPublicTimetableService) Get(_ context.Context, _, _ string) (*dto.TimetableViewResponse, error) {
	return m.view, m.err
}

// ── Mock SubjectService ──

type mockSubjectService struct {
	result    *dto.SubjectResponse
	list      []dto.SubjectResponse
	err       error
	createReq *dto.SubjectRequest
}

func (m *mockSubjectService) Create(_ context.Context, req *dto.SubjectRequest) (*dto.SubjectResponse, error) {
	m.createReq = req
	return m.result, m.err
}
func (m *mockSubjectService) GetByID(_ context.Context, _ string) (*dto.SubjectResponse, error) {
	return m.result, m.err
}
func (m *mockSubjectService) List(_ context.Context) ([]dto.SubjectResponse, error) {
	return m.list, m.err
}
func (m *mockSubjectService) Update(_ context.Context, _ string, _ *dto.SubjectRequest) (*dto.SubjectResponse, error) {
	return m.result, m.err
}
func (m *mockSubjectService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ── Mock StaffService ──

type mockStaffService struct {
	result *dto.StaffResponse
	err    error
}

func (m *mockStaffService) Create(_ context.Context, _ *dto.StaffRequest) (*dto.StaffResponse, error) {
	return m.result, m.err
}
func (m *mockStaffService) GetByID(_ context.Context, _ string) (*dto.StaffResponse, error) {
	return m.result, m.err
}
func (m *mockStaffService) List(_ context.Context) ([]dto.StaffResponse, error) {
	return nil, m.err
}
func (m *mockStaffService) Update(_ context.Context, _ string, _ *dto.StaffRequest) (*dto.StaffResponse, error) {
	return m.result, m.err
}
func (m *mockStaffService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ── Mock ConfigService ──

type mockConfigService struct {
	result *dto.ScheduleConfigResponse
	err    error
	called bool
}

func (m *mockConfigService) Create(_ context.Context, _ *dto.ScheduleConfigRequest) (*dto.ScheduleConfigResponse, error) {
	m.called = true
	return m.result, m.err
}
func (m *mockConfigService) GetByID(_ context.Context, _ string) (*dto.ScheduleConfigResponse, error) {
	return m.result, m.err
}
func (m *mockConfigService) List(_ context.Context) ([]dto.ScheduleConfigResponse, error) {
	return nil, m.err
}
func (m *mockConfigService) Update(_ context.Context, _ string, _ *dto.ScheduleConfigRequest) (*dto.ScheduleConfigResponse, error) {
	m.called = true
	return m.result, m.err
}
func (m *mockConfigService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf       *bytes.Buffer
	data      []byte
	filename  string
	err       error
	weekStart time.Time
	weeks     int
}

func (m *mockExportService) ExportExcel(_ *dto.TimetableViewResponse) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportICS(_ *dto.TimetableViewResponse, weekStart time.Time, weeks int) ([]byte, string, error) {
	m.weekStart, m.weeks = weekStart, weeks
	return m.data, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	claims := &jwt.Claims{Email: "admin@college.edu", Role: model.RoleAdmin, UpstreamToken: "up"}
	claims.ID = "test-jti"
	c.Set(ClaimsKey, claims)
	c.Set("role", claims.Role)
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func sampleView() *dto.TimetableViewResponse {
	return &dto.TimetableViewResponse{
		Grid: timetable.Grid{
			Semester:   "3",
			Department: "CSE",
			Columns:    []model.TimeSlotColumn{{Start: "09:00", End: "09:50", Label: "09:00 - 09:50"}},
			Rows: []timetable.Row{{
				Day:   model.Day("Monday"),
				Cells: []timetable.Cell{{Start: "09:00", End: "09:50", Kind: model.KindLecture, Label: "CS301"}},
			}},
		},
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_RoutesRole(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "console-token", ExpiresIn: 3600},
	}
	h := NewAuthHandler(mock)

	for _, tc := range []struct {
		path    string
		handler gin.HandlerFunc
		role    string
	}{
		{"/auth/admin/login", h.AdminLogin, model.RoleAdmin},
		{"/auth/staff/login", h.StaffLogin, model.RoleStaff},
	} {
		_, _, w := setupGin()
		req := httptest.NewRequest("POST", tc.path, jsonBody(dto.LoginRequest{
			Email:    "someone@college.edu",
			Password: "secret",
		}))
		req.Header.Set("Content-Type", "application/json")

		r := gin.New()
		r.POST(tc.path, tc.handler)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s expected 200, got %d", tc.path, w.Code)
		}
		if mock.loginRole != tc.role {
			t.Errorf("%s expected role %s, got %s", tc.path, tc.role, mock.loginRole)
		}
	}
}

func TestAuthHandler_Login_BadEmail(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/admin/login", jsonBody(map[string]string{
		"email":    "not-an-email",
		"password": "x",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/admin/login", h.AdminLogin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.loginRole != "" {
		t.Error("service should not be called on invalid input")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/staff/login", jsonBody(dto.LoginRequest{
		Email:    "staff@college.edu",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/staff/login", h.StaffLogin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10010 {
		t.Errorf("expected error code 10010, got %d", resp.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Success(t *testing.T) {
	mock := &mockAuthService{
		profileResult: &dto.ProfileResponse{Name: "Admin", Email: "admin@college.edu", Role: "admin"},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		setAuth(c)
		h.GetCurrentUser(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"email":"admin@college.edu"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !mock.logoutCalled {
		t.Error("expected Logout to be called")
	}
}

// ═══════════════════════════════════════════════════════════
// TimetableHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTimetableHandler_Generate_Success(t *testing.T) {
	mock := &mockTimetableService{
		generateResult: &dto.TimetableViewsResponse{Type: "odd", Views: []dto.TimetableViewResponse{*sampleView()}},
	}
	h := NewTimetableHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timetables/generate", jsonBody(dto.GenerateTimetableRequest{
		Type:       "odd",
		Department: "CSE",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timetables/generate", h.Generate)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestTimetableHandler_Generate_BadType(t *testing.T) {
	h := NewTimetableHandler(&mockTimetableService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timetables/generate", jsonBody(map[string]string{
		"type":       "summer",
		"department": "CSE",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timetables/generate", h.Generate)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTimetableHandler_GetView_PassesParams(t *testing.T) {
	mock := &mockTimetableService{view: sampleView()}
	h := NewTimetableHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/3/Civil%20Engg", nil)

	r := gin.New()
	r.GET("/timetables/:semester/:department", h.GetView)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.gotSemester != "3" || mock.gotDepartment != "Civil Engg" {
		t.Errorf("unexpected params: %q %q", mock.gotSemester, mock.gotDepartment)
	}
	if !strings.Contains(w.Body.String(), `"label":"CS301"`) {
		t.Errorf("grid missing from body: %s", w.Body.String())
	}
}

func TestTimetableHandler_GetVersion_InvalidVersion(t *testing.T) {
	mock := &mockTimetableService{}
	h := NewTimetableHandler(mock)

	for _, v := range []string{"abc", "0", "-1"} {
		_, _, w := setupGin()
		req := httptest.NewRequest("GET", "/timetables/versions/odd/"+v, nil)

		r := gin.New()
		r.GET("/timetables/versions/:type/:version", h.GetVersion)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("version=%s expected 400, got %d", v, w.Code)
		}
		if resp := parseResponse(w); resp.Code != 20004 {
			t.Errorf("version=%s expected code 20004, got %d", v, resp.Code)
		}
	}
	if mock.gotVersion != 0 {
		t.Error("service should not be called with invalid version")
	}
}

func TestTimetableHandler_SetActive_Success(t *testing.T) {
	mock := &mockTimetableService{}
	h := NewTimetableHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/timetables/versions/even/4/active", nil)

	r := gin.New()
	r.PUT("/timetables/versions/:type/:version/active", h.SetActive)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.gotVersion != 4 {
		t.Errorf("expected version 4, got %d", mock.gotVersion)
	}
	if !strings.Contains(w.Body.String(), `"type":"even"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestTimetableHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"not found", service.ErrTimetableNotFound, http.StatusNotFound, 20001},
		{"no data", service.ErrNoTimetableData, http.StatusUnprocessableEntity, 20002},
		{"bad type", service.ErrInvalidSemesterType, http.StatusBadRequest, 20003},
		{"upstream down", fmt.Errorf("get: %w", &apiclient.Error{StatusCode: http.StatusBadGateway}), http.StatusBadGateway, 10006},
		{"upstream session", &apiclient.Error{StatusCode: http.StatusUnauthorized}, http.StatusUnauthorized, 10007},
		{"upstream rejected", &apiclient.Error{StatusCode: http.StatusConflict, Message: "exists"}, http.StatusBadRequest, 10008},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTimetableHandler(&mockTimetableService{viewErr: tt.err})

			_, _, w := setupGin()
			req := httptest.NewRequest("GET", "/timetables/3/CSE", nil)

			r := gin.New()
			r.GET("/timetables/:semester/:department", h.GetView)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestTimetableHandler_UpstreamRejectedCarriesDetails(t *testing.T) {
	h := NewTimetableHandler(&mockTimetableService{
		generateErr: &apiclient.Error{StatusCode: http.StatusBadRequest, Message: "No subjects found"},
	})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timetables/generate", jsonBody(dto.GenerateTimetableRequest{
		Type:       "even",
		Department: "CSE",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timetables/generate", h.Generate)
	r.ServeHTTP(w, req)

	if resp := parseResponse(w); resp.Details != "No subjects found" {
		t.Errorf("expected upstream message in details, got %q", resp.Details)
	}
}

// ═══════════════════════════════════════════════════════════
// PublicTimetableHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPublicTimetableHandler_Get(t *testing.T) {
	h := NewPublicTimetableHandler(&mockPublicTimetableService{view: sampleView()})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/public/timetables/3/CSE", nil)

	r := gin.New()
	r.GET("/public/timetables/:semester/:department", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestPublicTimetableHandler_NotFound(t *testing.T) {
	h := NewPublicTimetableHandler(&mockPublicTimetableService{err: service.ErrPublicTimetableNotFound})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/public/timetables/3/CSE", nil)

	r := gin.New()
	r.GET("/public/timetables/:semester/:department", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 21001 {
		t.Errorf("expected code 21001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CRUD Handler Tests
// ═══════════════════════════════════════════════════════════

func TestSubjectHandler_Create_LabRequiresLabName(t *testing.T) {
	mock := &mockSubjectService{result: &dto.SubjectResponse{ID: "S1"}}
	h := NewSubjectHandler(mock)

	body := dto.SubjectRequest{
		SubjectName:    "Networks Lab",
		SubjectCode:    "CS391",
		SubjectType:    "Lab",
		Faculty:        "F1",
		PeriodsPerWeek: 3,
		Semester:       "3",
		Department:     "CSE",
	}

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/subjects", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/subjects", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without lab_name, got %d", w.Code)
	}

	body.LabName = "Lab 2"
	_, _, w = setupGin()
	req = httptest.NewRequest("POST", "/subjects", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.createReq == nil || mock.createReq.LabName != "Lab 2" {
		t.Errorf("request not forwarded: %+v", mock.createReq)
	}
}

func TestSubjectHandler_GetByID_NotFound(t *testing.T) {
	h := NewSubjectHandler(&mockSubjectService{err: service.ErrSubjectNotFound})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/subjects/missing", nil)

	r := gin.New()
	r.GET("/subjects/:id", h.GetByID)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 22001 {
		t.Errorf("expected code 22001, got %d", resp.Code)
	}
}

func TestStaffHandler_Delete(t *testing.T) {
	h := NewStaffHandler(&mockStaffService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("DELETE", "/staff/F1", nil)

	r := gin.New()
	r.DELETE("/staff/:id", h.Delete)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"id":"F1"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestStaffHandler_Update_NotFound(t *testing.T) {
	h := NewStaffHandler(&mockStaffService{err: service.ErrStaffNotFound})

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/staff/F9", jsonBody(dto.StaffRequest{
		Name:        "R. Kumar",
		Department:  "CSE",
		Email:       "rk@college.edu",
		Designation: "Professor",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/staff/:id", h.Update)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 23001 {
		t.Errorf("expected code 23001, got %d", resp.Code)
	}
}

func validConfigBody() map[string]interface{} {
	return map[string]interface{}{
		"start_of_day": "08:30",
		"class_start":  "09:00",
		"class_end":    "16:30",
		"lunch_start":  "12:50",
		"lunch_end":    "13:30",
		"breaks": []map[string]string{
			{"name": "Short", "start": "10:40", "end": "10:50"},
		},
	}
}

func TestConfigHandler_Create_HHMMValidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(map[string]interface{})
		wantStatus int
	}{
		{"valid", func(map[string]interface{}) {}, http.StatusCreated},
		{"single digit hour", func(b map[string]interface{}) { b["class_start"] = "9:00" }, http.StatusBadRequest},
		{"hour out of range", func(b map[string]interface{}) { b["lunch_end"] = "24:00" }, http.StatusBadRequest},
		{"bad break", func(b map[string]interface{}) {
			b["breaks"] = []map[string]string{{"name": "x", "start": "10:4O", "end": "10:50"}}
		}, http.StatusBadRequest},
		{"qcpc empty allowed", func(b map[string]interface{}) { b["qcpc_start"] = "" }, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockConfigService{result: &dto.ScheduleConfigResponse{ID: "1"}}
			h := NewConfigHandler(mock)

			body := validConfigBody()
			tt.mutate(body)

			_, _, w := setupGin()
			req := httptest.NewRequest("POST", "/config", jsonBody(body))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/config", h.Create)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusBadRequest && mock.called {
				t.Error("service should not be called on invalid input")
			}
		})
	}
}

func TestConfigHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{service.ErrConfigNotFound, 24001},
		{fmt.Errorf("%w: class", service.ErrConfigWindowOrder), 24003},
		{service.ErrConfigQCPCRequired, 24004},
	}

	for _, tt := range tests {
		h := NewConfigHandler(&mockConfigService{err: tt.err})

		_, _, w := setupGin()
		req := httptest.NewRequest("PUT", "/config/1", jsonBody(validConfigBody()))
		req.Header.Set("Content-Type", "application/json")

		r := gin.New()
		r.PUT("/config/:id", h.Update)
		r.ServeHTTP(w, req)

		if resp := parseResponse(w); resp.Code != tt.wantCode {
			t.Errorf("%v: expected code %d, got %d", tt.err, tt.wantCode, resp.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Excel_Success(t *testing.T) {
	exp := &mockExportService{
		buf:      bytes.NewBufferString("fake-xlsx-content"),
		filename: "timetable_CSE_3.xlsx",
	}
	h := NewExportHandler(&mockTimetableService{view: sampleView()}, exp)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/3/CSE/export.xlsx", nil)

	r := gin.New()
	r.GET("/timetables/:semester/:department/export.xlsx", h.ExportExcel)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "timetable_CSE_3.xlsx") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if w.Body.String() != "fake-xlsx-content" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestExportHandler_ICS_Query(t *testing.T) {
	exp := &mockExportService{data: []byte("BEGIN:VCALENDAR"), filename: "timetable_CSE_3.ics"}
	h := NewExportHandler(&mockTimetableService{view: sampleView()}, exp)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/3/CSE/export.ics?week_start=2024-07-01&weeks=8", nil)

	r := gin.New()
	r.GET("/timetables/:semester/:department/export.ics", h.ExportICS)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if exp.weeks != 8 {
		t.Errorf("expected weeks=8, got %d", exp.weeks)
	}
	if got := exp.weekStart.Format(time.DateOnly); got != "2024-07-01" {
		t.Errorf("expected week_start 2024-07-01, got %s", got)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("unexpected content type %q", w.Header().Get("Content-Type"))
	}
}

func TestExportHandler_ICS_BadQuery(t *testing.T) {
	for _, q := range []string{"week_start=07/01/2024", "weeks=abc", "weeks=99"} {
		h := NewExportHandler(&mockTimetableService{view: sampleView()}, &mockExportService{})

		_, _, w := setupGin()
		req := httptest.NewRequest("GET", "/timetables/3/CSE/export.ics?"+q, nil)

		r := gin.New()
		r.GET("/timetables/:semester/:department/export.ics", h.ExportICS)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s expected 400, got %d", q, w.Code)
		}
	}
}

func TestExportHandler_TimetableNotFound(t *testing.T) {
	h := NewExportHandler(&mockTimetableService{viewErr: service.ErrTimetableNotFound}, &mockExportService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/3/CSE/export.xlsx", nil)

	r := gin.New()
	r.GET("/timetables/:semester/:department/export.xlsx", h.ExportExcel)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportHandler_NoData(t *testing.T) {
	h := NewExportHandler(&mockTimetableService{view: sampleView()}, &mockExportService{err: service.ErrExportNoData})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/3/CSE/export.ics", nil)

	r := gin.New()
	r.GET("/timetables/:semester/:department/export.ics", h.ExportICS)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 25001 {
		t.Errorf("expected code 25001, got %d", resp.Code)
	}
}
