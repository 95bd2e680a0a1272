package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/shiven424/hostel-system/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportResidents 导出宿舍楼学生名单为 Excel，返回文件内容与文件名
	ExportResidents(ctx context.Context, hostelName string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	dir    HostelDirectory
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, dir HostelDirectory, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, dir: dir, logger: logger}
}

var residentHeaders = []string{"BITS ID", "姓名", "邮箱", "联系电话", "房间号", "注册日期"}

func (s *exportService) ExportResidents(ctx context.Context, hostelName string) (*bytes.Buffer, string, error) {
	// 1. 宿舍楼与名单
	hostel, err := s.dir.Resolve(ctx, hostelName)
	if err != nil {
		return nil, "", err
	}
	students, err := s.repo.User.ListStudentsByHostel(ctx, hostel.HostelID)
	if err != nil {
		s.logger.Error("查询楼内学生失败", zap.String("hostel", hostel.Name), zap.Error(err))
		return nil, "", err
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "住宿名单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 16)
	f.SetColWidth(sheetName, "B", "B", 18)
	f.SetColWidth(sheetName, "C", "C", 28)
	f.SetColWidth(sheetName, "D", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	lastCol := colName(len(residentHeaders) - 1)
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s（%s）住宿名单 · 入住 %d / %d",
		hostel.Name, hostel.Location, hostel.CurrentOccupancy, hostel.Capacity))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range residentHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	for _, u := range students {
		room := "-"
		if u.RoomNumber != nil {
			room = *u.RoomNumber
		}
		values := []interface{}{u.BitsID, u.Username, u.Email, u.ContactNumber, room, u.RegistrationDate.Format(timeLayout)}
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("住宿名单_%s.xlsx", hostel.Slug)
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
