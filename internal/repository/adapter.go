package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"timetable-console/internal/model"
	apperr "timetable-console/pkg/errors"
)

// ── 远端响应适配 ──
//
// 远端接口在多个版本间结构不一致：
//   - 课表条目既可能在 entries（嵌套），也可能在 timetableEntries（扁平）
//   - subject 既可能是 ID 字符串，也可能是带 _id 的对象
//   - semester 既可能是数字，也可能是数字字符串或 "global"
//   - 列表既可能是裸数组，也可能包在 {timetables|data} 中
// 所有差异在此处收敛为 model 中的规范结构，投影层不感知。

type rawWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type rawEntry struct {
	Day      string          `json:"day"`
	TimeSlot rawWindow       `json:"timeSlot"`
	Type     string          `json:"type"`
	Subject  json.RawMessage `json:"subject"`
	Room     string          `json:"room"`
}

type rawBlock struct {
	Semester         json.RawMessage `json:"semester"`
	Department       string          `json:"department"`
	Entries          []rawEntry      `json:"entries"`
	TimetableEntries []rawEntry      `json:"timetableEntries"`
	IsActive         bool            `json:"isActive"`
}

type rawSummary struct {
	ID         string          `json:"_id"`
	Department string          `json:"department"`
	Type       string          `json:"type"`
	Version    json.Number     `json:"version"`
	CreatedAt  string          `json:"createdAt"`
	Semester   json.RawMessage `json:"semester"`
}

// decodeBlocks 解析课表列表：裸数组或 {timetables: [...]} / {data: [...]}
func decodeBlocks(raw json.RawMessage) ([]model.SemesterBlock, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []model.SemesterBlock{}, nil
	}

	var blocks []rawBlock
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &blocks); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
		}
	} else {
		var wrapped struct {
			Timetables []rawBlock `json:"timetables"`
			Data       []rawBlock `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
		}
		blocks = wrapped.Timetables
		if blocks == nil {
			blocks = wrapped.Data
		}
	}

	result := make([]model.SemesterBlock, 0, len(blocks))
	for i := range blocks {
		result = append(result, toBlock(&blocks[i]))
	}
	return result, nil
}

// decodeBlock 解析单个课表：裸对象或 {timetable: {...}}
func decodeBlock(raw json.RawMessage) (*model.SemesterBlock, error) {
	var wrapped struct {
		Timetable *rawBlock `json:"timetable"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
	}
	if wrapped.Timetable != nil {
		b := toBlock(wrapped.Timetable)
		return &b, nil
	}

	var rb rawBlock
	if err := json.Unmarshal(raw, &rb); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
	}
	b := toBlock(&rb)
	return &b, nil
}

func toBlock(rb *rawBlock) model.SemesterBlock {
	src := rb.Entries
	if len(src) == 0 {
		src = rb.TimetableEntries
	}

	entries := make([]model.Entry, 0, len(src))
	for _, re := range src {
		kind := model.ParseSlotKind(re.Type)
		e := model.Entry{
			Day:      model.Day(strings.TrimSpace(re.Day)),
			TimeSlot: model.TimeWindow{Start: re.TimeSlot.Start, End: re.TimeSlot.End},
			Kind:     kind,
			Room:     re.Room,
		}
		// 课程引用只对讲授课 / 实验课有意义
		if kind.IsClass() {
			e.SubjectRef = subjectRef(re.Subject)
			e.Subject = embeddedSubject(re.Subject)
		}
		entries = append(entries, e)
	}

	return model.SemesterBlock{
		Semester:   semesterString(rb.Semester),
		Department: rb.Department,
		Entries:    entries,
		IsActive:   rb.IsActive,
	}
}

// subjectRef 兼容字符串 ID 与 {_id|id} 对象
func subjectRef(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.MongoID != "" {
			return obj.MongoID
		}
		return obj.ID
	}
	return ""
}

// embeddedSubject 远端已展开的课程对象；不含课程代码时返回 nil，交给解析器查询
func embeddedSubject(raw json.RawMessage) *model.SubjectDetails {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var rs rawSubject
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil
	}
	if rs.SubjectCode == "" && rs.Code == "" {
		return nil
	}
	return rs.details()
}

// semesterString 数字或字符串统一为字符串
func semesterString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return ""
}

func toSummary(rs *rawSummary) model.TimetableSummary {
	version, _ := strconv.Atoi(rs.Version.String())
	return model.TimetableSummary{
		ID:         rs.ID,
		Department: rs.Department,
		Type:       model.SemesterType(strings.ToLower(rs.Type)),
		Version:    version,
		CreatedAt:  rs.CreatedAt,
	}
}

// semesterPathValue 空学期视为全局课表
func semesterPathValue(semester string) string {
	if semester == "" {
		return model.SemesterGlobal
	}
	return semester
}

// decodeList 解析裸数组或 {<key>|data: [...]} 包装的列表
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] != '[' {
		inner, err := unwrap(raw, key)
		if err != nil {
			return nil, err
		}
		raw = inner
	}

	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeItem 解析裸对象或 {<key>|data: {...}} 包装的单条记录
func decodeItem[T any](raw json.RawMessage, key string) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, apperr.ErrUpstreamInvalidResponse
	}
	inner, err := unwrap(raw, key)
	if err != nil {
		return nil, err
	}
	var item T
	if err := json.Unmarshal(inner, &item); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
	}
	return &item, nil
}

// unwrap 取出 key 或 data 字段；都不存在时返回原对象
func unwrap(raw json.RawMessage, key string) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstreamInvalidResponse, err)
	}
	for _, k := range []string{key, "data"} {
		if v, ok := fields[k]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return v, nil
		}
	}
	return raw, nil
}
