package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"timetable-console/config"
	"timetable-console/internal/model"
	"timetable-console/internal/repository"
	"timetable-console/pkg/apiclient"
	apperr "timetable-console/pkg/errors"
)

var errNotFound = &apiclient.Error{StatusCode: 404, Message: "not found"}

// ── Mock AuthRepository ──

type mockAuthRepo struct {
	users   map[string]string // email → password
	token   string
	profile *model.Profile
	err     error
}

func (m *mockAuthRepo) Login(_ context.Context, _ string, email, password string) (*repository.LoginResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if pw, ok := m.users[email]; !ok || pw != password {
		return nil, &apiclient.Error{StatusCode: 401, Message: "Invalid credentials"}
	}
	return &repository.LoginResult{Token: m.token, Profile: model.Profile{ID: "u-" + email, Email: email}}, nil
}

func (m *mockAuthRepo) Profile(_ context.Context, _ string) (*model.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.profile == nil {
		return nil, errNotFound
	}
	p := *m.profile
	return &p, nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	blocks    map[string]*model.SemesterBlock // "semester/department"
	generated []model.SemesterBlock
	versions  map[string][]model.SemesterBlock // "type/version"
	active    map[model.SemesterType]int
	summaries []model.TimetableSummary
	public    map[string]*model.SemesterBlock
	publicHit int
	err       error
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{
		blocks:   make(map[string]*model.SemesterBlock),
		versions: make(map[string][]model.SemesterBlock),
		active:   make(map[model.SemesterType]int),
		public:   make(map[string]*model.SemesterBlock),
	}
}

func (m *mockTimetableRepo) Generate(_ context.Context, _ model.SemesterType, _ string) ([]model.SemesterBlock, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.generated, nil
}

func (m *mockTimetableRepo) Get(_ context.Context, semester, department string) (*model.SemesterBlock, error) {
	if m.err != nil {
		return nil, m.err
	}
	if b, ok := m.blocks[semester+"/"+department]; ok {
		return b, nil
	}
	return nil, errNotFound
}

func (m *mockTimetableRepo) List(_ context.Context) ([]model.TimetableSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summaries, nil
}

func (m *mockTimetableRepo) ListByVersion(_ context.Context, semType model.SemesterType, version int) ([]model.SemesterBlock, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.versions[fmt.Sprintf("%s/%d", semType, version)], nil
}

func (m *mockTimetableRepo) SetActive(_ context.Context, semType model.SemesterType, version int) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.versions[fmt.Sprintf("%s/%d", semType, version)]; !ok {
		return errNotFound
	}
	m.active[semType] = version
	return nil
}

func (m *mockTimetableRepo) GetActive(_ context.Context, semType model.SemesterType) (*model.TimetableSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.active[semType]
	if !ok {
		return nil, errNotFound
	}
	return &model.TimetableSummary{Type: semType, Version: v}, nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, semester, department string) error {
	if m.err != nil {
		return m.err
	}
	key := semester + "/" + department
	if _, ok := m.blocks[key]; !ok {
		return errNotFound
	}
	delete(m.blocks, key)
	return nil
}

func (m *mockTimetableRepo) GetPublic(_ context.Context, semester, department string) (*model.SemesterBlock, error) {
	m.publicHit++
	if m.err != nil {
		return nil, m.err
	}
	if b, ok := m.public[semester+"/"+department]; ok {
		return b, nil
	}
	return nil, errNotFound
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	mu       sync.Mutex
	subjects map[string]*model.Subject
	details  map[string]*model.SubjectDetails
	calls    map[string]int
	nextID   int
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{
		subjects: make(map[string]*model.Subject),
		details:  make(map[string]*model.SubjectDetails),
		calls:    make(map[string]int),
	}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) (*model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s := *subject
	s.ID = fmt.Sprintf("sub-%d", m.nextID)
	m.subjects[s.ID] = &s
	return &s, nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, errNotFound
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, id string, subject *model.Subject) (*model.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[id]; !ok {
		return nil, errNotFound
	}
	s := *subject
	s.ID = id
	m.subjects[id] = &s
	return &s, nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[id]; !ok {
		return errNotFound
	}
	delete(m.subjects, id)
	return nil
}

func (m *mockSubjectRepo) GetSubjectDetails(_ context.Context, id string) (*model.SubjectDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[id]++
	if d, ok := m.details[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: subject %s", apperr.ErrUpstreamUnavailable, id)
}

func (m *mockSubjectRepo) callCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff  map[string]*model.Staff
	nextID int
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.Staff) (*model.Staff, error) {
	m.nextID++
	s := *staff
	s.ID = fmt.Sprintf("staff-%d", m.nextID)
	m.staff[s.ID] = &s
	return &s, nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, errNotFound
}

func (m *mockStaffRepo) List(_ context.Context) ([]model.Staff, error) {
	result := make([]model.Staff, 0, len(m.staff))
	for _, s := range m.staff {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockStaffRepo) Update(_ context.Context, id string, staff *model.Staff) (*model.Staff, error) {
	if _, ok := m.staff[id]; !ok {
		return nil, errNotFound
	}
	s := *staff
	s.ID = id
	m.staff[id] = &s
	return &s, nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.staff[id]; !ok {
		return errNotFound
	}
	delete(m.staff, id)
	return nil
}

// ── Mock ConfigRepository ──

type mockConfigRepo struct {
	configs map[string]*model.ScheduleConfig
	nextID  int
}

func newMockConfigRepo() *mockConfigRepo {
	return &mockConfigRepo{configs: make(map[string]*model.ScheduleConfig)}
}

func (m *mockConfigRepo) Create(_ context.Context, cfg *model.ScheduleConfig) (*model.ScheduleConfig, error) {
	m.nextID++
	c := *cfg
	c.ID = fmt.Sprintf("cfg-%d", m.nextID)
	m.configs[c.ID] = &c
	return &c, nil
}

func (m *mockConfigRepo) GetByID(_ context.Context, id string) (*model.ScheduleConfig, error) {
	if c, ok := m.configs[id]; ok {
		return c, nil
	}
	return nil, errNotFound
}

func (m *mockConfigRepo) List(_ context.Context) ([]model.ScheduleConfig, error) {
	result := make([]model.ScheduleConfig, 0, len(m.configs))
	for _, c := range m.configs {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockConfigRepo) Update(_ context.Context, id string, cfg *model.ScheduleConfig) (*model.ScheduleConfig, error) {
	if _, ok := m.configs[id]; !ok {
		return nil, errNotFound
	}
	c := *cfg
	c.ID = id
	m.configs[id] = &c
	return &c, nil
}

func (m *mockConfigRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.configs[id]; !ok {
		return errNotFound
	}
	delete(m.configs, id)
	return nil
}

// ── Mock 缓存 / 黑名单 ──

type mockBlacklist struct {
	jtis map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.jtis == nil {
		m.jtis = make(map[string]time.Duration)
	}
	m.jtis[jti] = ttl
	return nil
}

// ── 测试辅助 ──

type testRepos struct {
	auth      *mockAuthRepo
	timetable *mockTimetableRepo
	subject   *mockSubjectRepo
	staff     *mockStaffRepo
	config    *mockConfigRepo
}

func newTestRepository() (*repository.Repository, *testRepos) {
	m := &testRepos{
		auth:      &mockAuthRepo{users: map[string]string{}, token: "upstream-token"},
		timetable: newMockTimetableRepo(),
		subject:   newMockSubjectRepo(),
		staff:     newMockStaffRepo(),
		config:    newMockConfigRepo(),
	}
	repo := &repository.Repository{
		Auth:      m.auth,
		Timetable: m.timetable,
		Subject:   m.subject,
		Staff:     m.staff,
		Config:    m.config,
	}
	return repo, m
}

func newTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			TimetableDays: []string{"Monday", "Tuesday"},
		},
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL: time.Hour,
		},
		Cache:  config.CacheConfig{PublicTimetableTTL: time.Minute},
		Export: config.ExportConfig{TimeZone: "UTC", ICSWeeks: 4},
	}
}

// sampleBlock 周一：09:00 讲授课、10:00 实验课、12:50 午餐；周二：09:00 QCPC
func sampleBlock(semester, department string) *model.SemesterBlock {
	return &model.SemesterBlock{
		Semester:   semester,
		Department: department,
		Entries: []model.Entry{
			{Day: model.Monday, TimeSlot: model.TimeWindow{Start: "09:00", End: "10:00"}, Kind: model.KindLecture, SubjectRef: "S1", Room: "A101"},
			{Day: model.Monday, TimeSlot: model.TimeWindow{Start: "10:00", End: "11:00"}, Kind: model.KindLab, SubjectRef: "S2"},
			{Day: model.Monday, TimeSlot: model.TimeWindow{Start: "12:50", End: "13:30"}, Kind: model.KindLunch},
			{Day: model.Tuesday, TimeSlot: model.TimeWindow{Start: "09:00", End: "10:00"}, Kind: model.KindQCPC},
		},
	}
}
