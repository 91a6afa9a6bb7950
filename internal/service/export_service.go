package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alpimi-planner/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportScheduleNotFound = errors.New("课表不存在")
	ErrExportNoBlocks         = errors.New("课表中暂无课时块")
	ErrExportGenerateFail     = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：单 Sheet，每个课时块一行，按日期 + 起始节次排序
type ExportService interface {
	// ExportSchedule 导出课表下全部课时块为 Excel
	ExportSchedule(ctx context.Context, scheduleID string, scope repository.AccessScope) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSchedule: 导出课时安排为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：课表名称
//   - 表头：日期 | 星期 | 节次 | 课时 | 课程 | 教师 | 教室 | 课组
//   - 未分配的教师 / 教室填 "-"
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportSchedule(ctx context.Context, scheduleID string, scope repository.AccessScope) (*bytes.Buffer, string, error) {
	// 1. 查询课表（含所有权过滤）
	schedule, err := s.repo.Schedule.GetByID(ctx, scheduleID, scope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportScheduleNotFound
		}
		s.logger.Error("查询课表失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, "", err
	}

	// 2. 分页枚举全部课时块
	blocks, err := listAllBlocks(ctx, s.repo, repository.LessonBlockFilter{
		Type: repository.FilterBySchedule,
		ID:   scheduleID,
	}, scope)
	if err != nil {
		s.logger.Error("查询课时块失败", zap.String("schedule_id", scheduleID), zap.Error(err))
		return nil, "", err
	}
	if len(blocks) == 0 {
		return nil, "", ErrExportNoBlocks
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课时安排"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"日期", "星期", "节次", "课时", "课程", "教师", "教室", "课组"}
	widths := []float64{12, 8, 10, 8, 24, 20, 14, 38}
	for i, w := range widths {
		f.SetColWidth(sheetName, colName(i), colName(i), w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 课时安排", schedule.Name))
	f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	row := 3
	for i := range blocks {
		b := &blocks[i]

		periods := fmt.Sprintf("%d-%d", b.LessonStart, b.LessonEnd)
		if b.LessonStart == b.LessonEnd {
			periods = fmt.Sprintf("%d", b.LessonStart)
		}
		lessonName := b.LessonID
		if b.Lesson != nil {
			lessonName = b.Lesson.Name
		}
		teacherName := "-"
		if b.Teacher != nil {
			teacherName = b.Teacher.Name + " " + b.Teacher.Surname
		}
		classroomName := "-"
		if b.Classroom != nil {
			classroomName = b.Classroom.Name
		}

		values := []interface{}{
			b.Date().Format(dateLayout),
			WeekdayName(WeekdayIndex(b.Date())),
			periods,
			b.Hours(),
			lessonName,
			teacherName,
			classroomName,
			b.ClusterID,
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课时安排_%s.xlsx", schedule.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
