package service

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"timetable-console/config"
	"timetable-console/internal/dto"
	"timetable-console/internal/model"
	"timetable-console/internal/timetable"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("课表中没有可导出的时间段")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const defaultICSWeeks = 16

// ExportService 导出业务接口
//
// 导出以已投影好的视图为输入，不再访问远端：
//   - Excel：星期为行、时间段为列，与页面网格一致
//   - ICS：每个非空闲单元格一条按周重复的 VEVENT
type ExportService interface {
	// ExportExcel 返回 xlsx 内容与建议文件名
	ExportExcel(view *dto.TimetableViewResponse) (*bytes.Buffer, string, error)
	// ExportICS weekStart 所在周为首周，weeks<=0 时使用配置值
	ExportICS(view *dto.TimetableViewResponse, weekStart time.Time, weeks int) ([]byte, string, error)
}

type exportService struct {
	cfg    *config.ExportConfig
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ExportConfig, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportExcel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：标题（部门 + 学期），跨列合并
//   - 第 2 行：Day | 各时间段
//   - 之后每行一天，单元格为课程代码 / 教师 / 教室

func (s *exportService) ExportExcel(view *dto.TimetableViewResponse) (*bytes.Buffer, string, error) {
	if view == nil || len(view.Columns) == 0 {
		return nil, "", ErrExportNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheetNameFor(view.Semester)
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	lastCol := colName(len(view.Columns))

	// 列宽
	_ = f.SetColWidth(sheetName, "A", "A", 14)
	_ = f.SetColWidth(sheetName, "B", lastCol, 20)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyles := make(map[timetable.DisplayStyle]int)
	for style, color := range styleColors {
		id, _ := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		})
		cellStyles[style] = id
	}

	// 标题行
	_ = f.SetCellValue(sheetName, "A1", exportTitle(view))
	_ = f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	_ = f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	_ = f.SetCellValue(sheetName, cell("A", 2), "Day")
	for i, col := range view.Columns {
		header := col.Label
		switch col.SpecialKind {
		case model.KindQCPC:
			header += "\nQCPC"
		case model.KindLunch:
			header += "\nLunch"
		}
		_ = f.SetCellValue(sheetName, cell(colName(i+1), 2), header)
	}
	_ = f.SetCellStyle(sheetName, cell("A", 2), cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	for _, r := range view.Rows {
		_ = f.SetCellValue(sheetName, cell("A", row), string(r.Day))
		for i, c := range r.Cells {
			ref := cell(colName(i+1), row)
			_ = f.SetCellValue(sheetName, ref, cellText(&c))
			if id, ok := cellStyles[c.Style]; ok {
				_ = f.SetCellStyle(sheetName, ref, ref, id)
			}
		}
		_ = f.SetRowHeight(sheetName, row, 42)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename(view, "xlsx"), nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportICS(view *dto.TimetableViewResponse, weekStart time.Time, weeks int) ([]byte, string, error) {
	if view == nil || len(view.Columns) == 0 {
		return nil, "", ErrExportNoData
	}
	if weeks <= 0 {
		weeks = s.cfg.ICSWeeks
	}
	if weeks <= 0 {
		weeks = defaultICSWeeks
	}

	loc, err := s.cfg.Location()
	if err != nil {
		s.logger.Error("导出时区无效", zap.String("time_zone", s.cfg.TimeZone), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	monday := mondayOf(weekStart.In(loc))
	stamp := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//timetable-console//Timetable Export//EN")
	if tzid := loc.String(); loc != time.UTC && tzid != "Local" {
		cal.SetXWRTimezone(tzid)
	}

	rrule := fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", weeks)
	count := 0
	for _, r := range view.Rows {
		offset, ok := dayOffset[r.Day]
		if !ok {
			continue
		}
		date := monday.AddDate(0, 0, offset)

		for _, c := range r.Cells {
			if c.Kind == model.KindFree {
				continue
			}
			start, ok1 := clockOn(date, c.Start)
			end, ok2 := clockOn(date, c.End)
			if !ok1 || !ok2 || !end.After(start) {
				// 非法时间段在网格中原样展示，但无法生成日历事件
				continue
			}

			event := cal.AddEvent(eventUID(view, r.Day, c.Start))
			event.SetDtStampTime(stamp)
			setEventTimes(event, start, end, loc)
			event.SetSummary(c.Label)
			if c.Room != "" {
				event.SetLocation(c.Room)
			}
			if c.FacultyName != "" {
				event.SetDescription(c.FacultyName)
			}
			event.AddProperty(ics.ComponentPropertyRrule, rrule)
			count++
		}
	}
	if count == 0 {
		return nil, "", ErrExportNoData
	}

	return []byte(cal.Serialize()), exportFilename(view, "ics"), nil
}

// ── 辅助函数 ──

const icsLocalLayout = "20060102T150405"

// setEventTimes 写入起止时间，保证 RRULE 按墙上时间重复
//   - UTC：带 Z 的 UTC 时间
//   - Local：浮动时间，由日历客户端按所在时区展示
//   - 其他时区：本地时间 + TZID，夏令时切换后钟点不变
func setEventTimes(event *ics.VEvent, start, end time.Time, loc *time.Location) {
	if loc == time.UTC {
		event.SetStartAt(start)
		event.SetEndAt(end)
		return
	}
	var params []ics.PropertyParameter
	if tzid := loc.String(); tzid != "Local" {
		params = append(params, &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{tzid}})
	}
	event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalLayout), params...)
	event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalLayout), params...)
}

var styleColors = map[timetable.DisplayStyle]string{
	timetable.StyleLecture: "#DDEBF7",
	timetable.StyleLab:     "#E2EFDA",
	timetable.StyleQCPC:    "#FFF2CC",
	timetable.StyleBreak:   "#FCE4D6",
	timetable.StyleFree:    "#F2F2F2",
}

var dayOffset = map[model.Day]int{
	model.Monday:    0,
	model.Tuesday:   1,
	model.Wednesday: 2,
	model.Thursday:  3,
	model.Friday:    4,
	model.Saturday:  5,
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func cellText(c *timetable.Cell) string {
	parts := []string{c.Label}
	if c.FacultyName != "" {
		parts = append(parts, c.FacultyName)
	}
	if c.Room != "" {
		parts = append(parts, c.Room)
	}
	return strings.Join(parts, "\n")
}

func exportTitle(view *dto.TimetableViewResponse) string {
	if view.Semester == "" || view.Semester == model.SemesterGlobal {
		return fmt.Sprintf("%s Timetable", view.Department)
	}
	return fmt.Sprintf("%s Semester %s Timetable", view.Department, view.Semester)
}

// sheetNameFor 工作表名最长 31 字符
func sheetNameFor(semester string) string {
	if semester == "" {
		return "Sheet1"
	}
	name := "Semester " + unsafeFileChars.ReplaceAllString(semester, "_")
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func exportFilename(view *dto.TimetableViewResponse, ext string) string {
	parts := []string{"timetable"}
	for _, p := range []string{view.Department, view.Semester} {
		if p = strings.Trim(unsafeFileChars.ReplaceAllString(p, "_"), "_"); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_") + "." + ext
}

func eventUID(view *dto.TimetableViewResponse, day model.Day, start string) string {
	raw := strings.Join([]string{view.Department, view.Semester, string(day), start}, "-")
	return strings.ToLower(unsafeFileChars.ReplaceAllString(raw, "")) + "@timetable-console"
}

func mondayOf(t time.Time) time.Time {
	d := int(t.Weekday()+6) % 7 // Monday=0
	y, m, day := t.Date()
	return time.Date(y, m, day-d, 0, 0, 0, 0, t.Location())
}

func clockOn(date time.Time, hhmm string) (time.Time, bool) {
	minutes, ok := model.ParseClock(hhmm)
	if !ok {
		return time.Time{}, false
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, date.Location()), true
}
