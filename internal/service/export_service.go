package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
	"github.com/NikhilSharma201/student-attendance-manager/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoStudents   = errors.New("暂无学生可导出")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 名册导出为 Excel (.xlsx)：每名学生一行，含出勤/缺勤/合计/出勤率与阈值分类
//   - 单个学生的考勤导出为 iCalendar (.ics)：每个记录日一个全天事件
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRoster 导出考勤名册为 Excel，返回 buf、建议文件名
	ExportRoster(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportCalendar 导出单个学生的考勤日历订阅文件
	ExportCalendar(ctx context.Context, studentID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportRoster(ctx context.Context) (*bytes.Buffer, string, error) {
	students, err := s.repo.User.ListStudents(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(students) == 0 {
		return nil, "", ErrExportNoStudents
	}

	records, err := s.repo.Attendance.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询考勤台账失败", zap.Error(err))
		return nil, "", err
	}

	byStudent := make(map[uint][]model.AttendanceRecord, len(students))
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Email", "Present", "Absent", "Total", "Percentage", "Classification"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, st := range students {
		present, absent, err := countStatuses(byStudent[st.ID])
		if err != nil {
			s.logger.Error("台账数据完整性故障", zap.Uint("student_id", st.ID), zap.Error(err))
			return nil, "", err
		}
		total := present + absent
		pct := percentage(present, total)

		values := []interface{}{st.ID, st.Name, st.Email, present, absent, total, pct, Classify(pct)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_roster_%s.xlsx", time.Now().Format(model.DateLayout))
	return buf, filename, nil
}

func (s *exportService) ExportCalendar(ctx context.Context, studentID uint) (*bytes.Buffer, string, error) {
	records, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, "", err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//student-attendance-manager//EN")

	now := time.Now()
	for _, rec := range records {
		day, err := time.ParseInLocation(model.DateLayout, rec.Date, time.Local)
		if err != nil {
			s.logger.Error("台账日期格式非法", zap.String("date", rec.Date), zap.Error(err))
			return nil, "", fmt.Errorf("%w: date=%q", ErrCorruptRecord, rec.Date)
		}

		summary := "Absent"
		if rec.Status == model.StatusPresent {
			summary = "Present"
		}

		ev := cal.AddEvent(fmt.Sprintf("attendance-%d-%s@student-attendance-manager", studentID, rec.Date))
		ev.SetDtStampTime(now)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(summary)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("attendance_%d.ics", studentID)
	return buf, filename, nil
}
