package model

import (
	"strconv"
	"strings"
)

// ── 星期 ──

// Day 课表中的星期（英文全称，与远端 API 一致）
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

// Weekdays 默认展示顺序（周一至周五）
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// ParseDays 将配置中的星期字符串转换为 Day 列表，忽略无法识别的值
func ParseDays(values []string) []Day {
	days := make([]Day, 0, len(values))
	for _, v := range values {
		switch d := Day(strings.TrimSpace(v)); d {
		case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return Weekdays
	}
	return days
}

// ── 时段类型 ──

// SlotKind 课表条目类型，入口处统一归一化，下游不再做大小写比较
type SlotKind string

const (
	KindLecture SlotKind = "lecture"
	KindLab     SlotKind = "lab"
	KindQCPC    SlotKind = "qcpc"
	KindLunch   SlotKind = "lunch"
	KindBreak   SlotKind = "break"
	KindFree    SlotKind = "free"
)

// ParseSlotKind 大小写不敏感地解析类型文本，无法识别时视为 Free
func ParseSlotKind(s string) SlotKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lecture":
		return KindLecture
	case "lab":
		return KindLab
	case "qcpc":
		return KindQCPC
	case "lunch":
		return KindLunch
	case "break":
		return KindBreak
	default:
		return KindFree
	}
}

// IsSpecial QCPC / 午餐 / 课间休息属于特殊时段
func (k SlotKind) IsSpecial() bool {
	return k == KindQCPC || k == KindLunch || k == KindBreak
}

// IsClass 讲授课或实验课
func (k SlotKind) IsClass() bool {
	return k == KindLecture || k == KindLab
}

// ── 时间窗口 ──

// TimeWindow 以 "HH:MM"（24 小时制、补零）表示的时间窗口
// 排序与匹配均按原始字符串进行，Minutes 仅供需要数值比较的调用方使用
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Key 返回 "{start}-{end}" 形式的键
func (w TimeWindow) Key() string {
	return w.Start + "-" + w.End
}

// Minutes 解析为距午夜的分钟数；任一端格式非法时 ok=false
func (w TimeWindow) Minutes() (start, end int, ok bool) {
	start, ok1 := ParseClock(w.Start)
	end, ok2 := ParseClock(w.End)
	return start, end, ok1 && ok2
}

// Valid 两端均为合法 HH:MM 且 start < end
func (w TimeWindow) Valid() bool {
	start, end, ok := w.Minutes()
	return ok && start < end
}

// ParseClock 解析严格的 "HH:MM" 文本
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ── 课表条目 ──

// Entry 某天某时间窗口的一个占用者
// SubjectRef 仅在 Lecture / Lab 时存在
type Entry struct {
	Day        Day        `json:"day"`
	TimeSlot   TimeWindow `json:"timeSlot"`
	Kind       SlotKind   `json:"type"`
	SubjectRef string     `json:"subject,omitempty"`
	Room       string     `json:"room,omitempty"`

	// Subject 远端已展开的课程详情，存在时无需再查询
	Subject *SubjectDetails `json:"-"`
}

// SemesterGlobal 非具体学期的全局课表
const SemesterGlobal = "global"

// SemesterBlock 一个 (学期, 系) 的完整课表，由远端生成后整体替换
type SemesterBlock struct {
	Semester   string  `json:"semester"` // 数字字符串或 "global"
	Department string  `json:"department"`
	Entries    []Entry `json:"entries"`
	IsActive   bool    `json:"isActive,omitempty"`
}

// SemesterType 奇数 / 偶数学期批次
type SemesterType string

const (
	SemesterOdd  SemesterType = "odd"
	SemesterEven SemesterType = "even"
)

// Valid 仅允许 odd / even
func (t SemesterType) Valid() bool {
	return t == SemesterOdd || t == SemesterEven
}

// TimetableSummary 课表版本列表项
type TimetableSummary struct {
	ID         string       `json:"id"`
	Department string       `json:"department"`
	Type       SemesterType `json:"type"`
	Version    int          `json:"version"`
	CreatedAt  string       `json:"createdAt"`
}

// TimeSlotColumn 由条目推导的网格列（不持久化）
type TimeSlotColumn struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Label       string   `json:"label"`
	SpecialKind SlotKind `json:"special_kind,omitempty"` // 仅 qcpc / lunch
}

// Window 列对应的时间窗口
func (c TimeSlotColumn) Window() TimeWindow {
	return TimeWindow{Start: c.Start, End: c.End}
}
