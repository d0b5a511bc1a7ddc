package timetable

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"timetable-console/internal/model"
)

// UnknownSubject 课程查询失败或无编码时的占位名称
const UnknownSubject = "Unknown Subject"

// SubjectLabel 课程展示标签
type SubjectLabel struct {
	SubjectID   string `json:"subject_id"`
	DisplayName string `json:"display_name"`
	FacultyName string `json:"faculty_name,omitempty"`
}

// SubjectLookup 课程详情查询（由远端 API 实现）
type SubjectLookup interface {
	GetSubjectDetails(ctx context.Context, id string) (*model.SubjectDetails, error)
}

// LabelResolver 课程 ID → 展示标签，带缓存
//
// 生命周期与一个视图一致：构建视图时创建，视图返回后丢弃，不做淘汰。
// 并发调用安全；同一 ID 的并发 Resolve 可能各自发起一次查询（不做 single-flight）。
type LabelResolver struct {
	lookup      SubjectLookup
	logger      *zap.Logger
	retryFailed bool
	concurrency int

	mu    sync.RWMutex
	cache map[string]SubjectLabel
}

// Option LabelResolver 可选项
type Option func(*LabelResolver)

// WithRetryFailed true 时查询失败不写缓存，下次调用会重新查询
func WithRetryFailed(retry bool) Option {
	return func(r *LabelResolver) { r.retryFailed = retry }
}

// WithConcurrency ResolveAll 的最大并发数，<=0 表示不限制
func WithConcurrency(n int) Option {
	return func(r *LabelResolver) { r.concurrency = n }
}

// WithLogger 记录被吞掉的查询失败
func WithLogger(logger *zap.Logger) Option {
	return func(r *LabelResolver) { r.logger = logger }
}

// NewLabelResolver 创建解析器
func NewLabelResolver(lookup SubjectLookup, opts ...Option) *LabelResolver {
	r := &LabelResolver{
		lookup: lookup,
		logger: zap.NewNop(),
		cache:  make(map[string]SubjectLabel),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve 命中缓存直接返回；未命中时查询一次（不重试）
// 失败时返回占位标签，错误不向上传播
func (r *LabelResolver) Resolve(ctx context.Context, id string) SubjectLabel {
	r.mu.RLock()
	label, ok := r.cache[id]
	r.mu.RUnlock()
	if ok {
		return label
	}

	details, err := r.lookup.GetSubjectDetails(ctx, id)
	if err != nil {
		r.logger.Warn("课程详情查询失败，使用占位名称",
			zap.String("subject_id", id),
			zap.Error(err),
		)
		label = SubjectLabel{SubjectID: id, DisplayName: UnknownSubject}
		// 请求被取消时不缓存，避免把取消误记为永久失败
		if !r.retryFailed && ctx.Err() == nil {
			r.store(label)
		}
		return label
	}

	label = labelFromDetails(id, details)
	r.store(label)
	return label
}

// ResolveAll 并发解析一组 ID；单个失败不影响其他 ID
func (r *LabelResolver) ResolveAll(ctx context.Context, ids []string) map[string]SubjectLabel {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var (
		mu     sync.Mutex
		result = make(map[string]SubjectLabel, len(unique))
	)

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for _, id := range unique {
		id := id
		g.Go(func() error {
			label := r.Resolve(ctx, id)
			mu.Lock()
			result[id] = label
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // Resolve 不返回错误

	return result
}

// Prime 用已知的课程详情预填缓存，之后的 Resolve 不再查询该 ID
func (r *LabelResolver) Prime(id string, d *model.SubjectDetails) {
	if id == "" || d == nil {
		return
	}
	r.store(labelFromDetails(id, d))
}

// Len 当前缓存条目数
func (r *LabelResolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *LabelResolver) store(label SubjectLabel) {
	r.mu.Lock()
	r.cache[label.SubjectID] = label
	r.mu.Unlock()
}

func labelFromDetails(id string, d *model.SubjectDetails) SubjectLabel {
	label := SubjectLabel{SubjectID: id, DisplayName: UnknownSubject}
	if d == nil {
		return label
	}
	switch {
	case d.SubjectCode != "":
		label.DisplayName = d.SubjectCode
	case d.Code != "":
		label.DisplayName = d.Code
	}
	if d.Faculty != nil {
		label.FacultyName = d.Faculty.Name
	}
	return label
}
