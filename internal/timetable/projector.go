// Package timetable 将远端返回的扁平课表条目投影为 星期 × 时间段 的展示网格。
//
// 本包中的投影函数均为纯函数：不做 I/O、不持有状态、不校验输入。
// 时间窗口按原始 "HH:MM" 字符串比较与排序，调用方需保证补零。
package timetable

import (
	"sort"

	"timetable-console/internal/model"
)

// DisplayStyle 单元格展示样式
type DisplayStyle string

const (
	StyleLab     DisplayStyle = "lab"
	StyleLecture DisplayStyle = "lecture"
	StyleQCPC    DisplayStyle = "qcpc"
	StyleBreak   DisplayStyle = "break" // 午餐与课间休息共用
	StyleFree    DisplayStyle = "free"
)

// FreePeriodLabel 空闲单元格文本
const FreePeriodLabel = "Free Period"

// DeriveTimeSlots 从条目中收集去重后的时间段列，按 Start 字符串升序
//
// 同一窗口以首次出现的条目建列；只要该窗口上出现过 qcpc 或 lunch 条目，
// 就标记 SpecialKind（先出现者优先）。同一窗口在不同星期既可是特殊时段也可是普通课。
func DeriveTimeSlots(entries []model.Entry) []model.TimeSlotColumn {
	columns := make([]model.TimeSlotColumn, 0)
	index := make(map[string]int, len(entries))

	for i := range entries {
		e := &entries[i]
		key := e.TimeSlot.Key()

		pos, seen := index[key]
		if !seen {
			pos = len(columns)
			index[key] = pos
			columns = append(columns, model.TimeSlotColumn{
				Start: e.TimeSlot.Start,
				End:   e.TimeSlot.End,
				Label: key,
			})
		}

		if columns[pos].SpecialKind == "" && (e.Kind == model.KindQCPC || e.Kind == model.KindLunch) {
			columns[pos].SpecialKind = e.Kind
		}
	}

	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].Start < columns[j].Start
	})

	return columns
}

// LookupRegular 查找普通课程条目，跳过 QCPC / 午餐 / 课间休息
func LookupRegular(entries []model.Entry, day model.Day, slot model.TimeWindow) *model.Entry {
	return lookup(entries, day, slot, func(k model.SlotKind) bool { return !k.IsSpecial() })
}

// LookupAny 查找任意类型的条目
func LookupAny(entries []model.Entry, day model.Day, slot model.TimeWindow) *model.Entry {
	return lookup(entries, day, slot, nil)
}

// LookupSpecial 仅查找特殊时段条目，网格渲染时特殊条目优先占用单元格
func LookupSpecial(entries []model.Entry, day model.Day, slot model.TimeWindow) *model.Entry {
	return lookup(entries, day, slot, model.SlotKind.IsSpecial)
}

func lookup(entries []model.Entry, day model.Day, slot model.TimeWindow, accept func(model.SlotKind) bool) *model.Entry {
	for i := range entries {
		e := &entries[i]
		if e.Day != day || e.TimeSlot.Start != slot.Start || e.TimeSlot.End != slot.End {
			continue
		}
		if accept != nil && !accept(e.Kind) {
			continue
		}
		return e
	}
	return nil
}

// Classify 条目 → 展示样式；nil 视为空闲
func Classify(e *model.Entry) DisplayStyle {
	if e == nil {
		return StyleFree
	}
	switch e.Kind {
	case model.KindLab:
		return StyleLab
	case model.KindLecture:
		return StyleLecture
	case model.KindQCPC:
		return StyleQCPC
	case model.KindLunch, model.KindBreak:
		return StyleBreak
	default:
		return StyleFree
	}
}

// SubjectRefs 按首次出现顺序返回去重后的课程 ID
func SubjectRefs(entries []model.Entry) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, e := range entries {
		if e.SubjectRef == "" {
			continue
		}
		if _, ok := seen[e.SubjectRef]; ok {
			continue
		}
		seen[e.SubjectRef] = struct{}{}
		ids = append(ids, e.SubjectRef)
	}
	return ids
}

// ── 网格 ──

// Cell 网格单元格
type Cell struct {
	Start       string         `json:"start"`
	End         string         `json:"end"`
	Kind        model.SlotKind `json:"kind"`
	Style       DisplayStyle   `json:"style"`
	Label       string         `json:"label"`
	SubjectID   string         `json:"subject_id,omitempty"`
	FacultyName string         `json:"faculty_name,omitempty"`
	Room        string         `json:"room,omitempty"`
}

// Row 一天的所有单元格，与 Grid.Columns 一一对应
type Row struct {
	Day   model.Day `json:"day"`
	Cells []Cell    `json:"cells"`
}

// Grid 星期 × 时间段 网格
type Grid struct {
	Semester   string                 `json:"semester"`
	Department string                 `json:"department"`
	Columns    []model.TimeSlotColumn `json:"columns"`
	Rows       []Row                  `json:"rows"`
}

// BuildGrid 组装网格：特殊条目优先，其次普通课程，否则为空闲
// labels 缺失的课程 ID 以 ID 原文展示
func BuildGrid(block *model.SemesterBlock, days []model.Day, labels map[string]SubjectLabel) Grid {
	columns := DeriveTimeSlots(block.Entries)
	grid := Grid{
		Semester:   block.Semester,
		Department: block.Department,
		Columns:    columns,
		Rows:       make([]Row, 0, len(days)),
	}

	for _, day := range days {
		row := Row{Day: day, Cells: make([]Cell, 0, len(columns))}
		for _, col := range columns {
			slot := col.Window()
			e := LookupSpecial(block.Entries, day, slot)
			if e == nil {
				e = LookupRegular(block.Entries, day, slot)
			}
			row.Cells = append(row.Cells, newCell(slot, e, labels))
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}

func newCell(slot model.TimeWindow, e *model.Entry, labels map[string]SubjectLabel) Cell {
	c := Cell{
		Start: slot.Start,
		End:   slot.End,
		Kind:  model.KindFree,
		Style: Classify(e),
		Label: FreePeriodLabel,
	}
	if e == nil {
		return c
	}

	c.Kind = e.Kind
	c.Room = e.Room
	switch {
	case e.SubjectRef != "":
		c.SubjectID = e.SubjectRef
		c.Label = e.SubjectRef
		if l, ok := labels[e.SubjectRef]; ok {
			c.Label = l.DisplayName
			c.FacultyName = l.FacultyName
		}
	case e.Kind == model.KindQCPC:
		c.Label = "QCPC"
	case e.Kind == model.KindLunch:
		c.Label = "Lunch"
	case e.Kind == model.KindBreak:
		c.Label = "Break"
	}
	return c
}
