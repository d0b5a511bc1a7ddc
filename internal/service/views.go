package service

import (
	"context"

	"go.uber.org/zap"

	"timetable-console/config"
	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/timetable"
)

// viewBuilder 把学期课表投影为网格视图
//
// 每次 build 调用创建一个新的 LabelResolver：同一次请求内的多个学期共享缓存，
// 请求结束即丢弃，不跨请求复用。
type viewBuilder struct {
	lookup timetable.SubjectLookup
	days   []model.Day
	opts   []timetable.Option
}

func newViewBuilder(lookup timetable.SubjectLookup, cfg *config.Config, logger *zap.Logger) *viewBuilder {
	return &viewBuilder{
		lookup: lookup,
		days:   model.ParseDays(cfg.Server.TimetableDays),
		opts: []timetable.Option{
			timetable.WithRetryFailed(cfg.Resolver.RetryFailed),
			timetable.WithConcurrency(cfg.Resolver.MaxConcurrency),
			timetable.WithLogger(logger),
		},
	}
}

func (b *viewBuilder) build(ctx context.Context, blocks []model.SemesterBlock) []dto.TimetableViewResponse {
	resolver := timetable.NewLabelResolver(b.lookup, b.opts...)

	var refs []string
	for i := range blocks {
		refs = append(refs, timetable.SubjectRefs(blocks[i].Entries)...)
		for _, e := range blocks[i].Entries {
			resolver.Prime(e.SubjectRef, e.Subject)
		}
	}

	labels := resolver.ResolveAll(ctx, refs)

	views := make([]dto.TimetableViewResponse, 0, len(blocks))
	for i := range blocks {
		views = append(views, dto.TimetableViewResponse{
			Grid:     timetable.BuildGrid(&blocks[i], b.days, labels),
			IsActive: blocks[i].IsActive,
		})
	}
	return views
}

func (b *viewBuilder) buildOne(ctx context.Context, block *model.SemesterBlock) *dto.TimetableViewResponse {
	views := b.build(ctx, []model.SemesterBlock{*block})
	return &views[0]
}
