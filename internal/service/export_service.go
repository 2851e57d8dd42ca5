package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"chrono-union/backend/internal/dto"
	"chrono-union/backend/internal/model"
	"chrono-union/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoInstances  = errors.New("区间内无事件实例")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出指定日期区间内全部物化实例为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 单元格展示合并后的有效字段（Modified* 覆盖父事件字段）
type ExportService interface {
	// ExportInstances 导出区间内事件实例为 Excel
	ExportInstances(ctx context.Context, startDate, endDate string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportInstances(ctx context.Context, startDate, endDate string) (*bytes.Buffer, string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, "", fmt.Errorf("%w: 起始日期 %s", ErrInvalidDateRange, startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, "", fmt.Errorf("%w: 结束日期 %s", ErrInvalidDateRange, endDate)
	}
	if end.Before(start) {
		return nil, "", fmt.Errorf("%w: 结束日期早于起始日期", ErrInvalidDateRange)
	}

	instances, err := s.repo.RecurrenceInstance.ListInRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询事件实例失败", zap.Error(err))
		return nil, "", err
	}
	if len(instances) == 0 {
		return nil, "", ErrExportNoInstances
	}

	// 父事件按需加载并缓存，父事件缺失的实例跳过
	eventCache := make(map[int64]*model.CalendarEvent)
	var views []dto.InstanceResponse
	for i := range instances {
		event, ok := eventCache[instances[i].ParentEventID]
		if !ok {
			event, err = s.repo.Event.GetByID(ctx, instances[i].ParentEventID)
			if err != nil {
				s.logger.Warn("实例的父事件不可用，导出时跳过",
					zap.Int64("instance_id", instances[i].ID),
					zap.Int64("parent_event_id", instances[i].ParentEventID))
				eventCache[instances[i].ParentEventID] = nil
				continue
			}
			eventCache[instances[i].ParentEventID] = event
		}
		if event == nil {
			continue
		}
		views = append(views, mergeInstance(event, &instances[i]))
	}
	if len(views) == 0 {
		return nil, "", ErrExportNoInstances
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "事件实例"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 24)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("事件实例 %s ~ %s", startDate, endDate))
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"日期", "标题", "开始", "结束", "时区", "状态", "地点"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	// 数据行
	row := 3
	for _, v := range views {
		f.SetCellValue(sheetName, cell("A", row), v.InstanceDate)
		f.SetCellValue(sheetName, cell("B", row), v.Title)
		f.SetCellValue(sheetName, cell("C", row), strOrDash(v.StartTime))
		f.SetCellValue(sheetName, cell("D", row), strOrDash(v.EndTime))
		f.SetCellValue(sheetName, cell("E", row), v.Timezone)
		f.SetCellValue(sheetName, cell("F", row), v.Status)
		f.SetCellValue(sheetName, cell("G", row), strOrDash(v.Location))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("事件实例_%s_%s.xlsx", startDate, endDate)
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

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
