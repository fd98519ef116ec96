package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/NikhilSharma201/student-attendance-manager/internal/dto"
	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
	"github.com/NikhilSharma201/student-attendance-manager/internal/repository"
	pkgerrors "github.com/NikhilSharma201/student-attendance-manager/pkg/errors"
)

var (
	ErrInvalidStatus = errors.New("考勤状态只能是 present 或 absent")
	ErrCorruptRecord = errors.New("台账中存在非法考勤状态")
)

// 出勤率阈值：达到 75% 为 satisfactory，否则为 defaulter（固定领域常量，不可配置）
const DefaulterThreshold = 75

// 阈值分类结果
const (
	ClassSatisfactory = "satisfactory"
	ClassDefaulter    = "defaulter"
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// MarkToday 提交今天的点名批次。
	// "今天"按服务器本地时区在收到请求时解析，绝不接受客户端日期。
	// 守卫作用域是整个数据集：该日期只要已有任何记录，后续提交一律拒绝。
	// 这意味着只点了部分学生的名册同样会锁死当天，与既有系统行为保持一致。
	MarkToday(ctx context.Context, entries []dto.MarkEntry) error
	// Summarize 对单个学生的台账记录做纯读侧聚合，每次读取重算，不缓存
	Summarize(ctx context.Context, studentID uint) (*dto.AttendanceSummary, error)
	// SummarizeRoster 名册聚合：每名学生都出现（按创建顺序），无记录者出勤率为 0
	SummarizeRoster(ctx context.Context) ([]dto.StudentSummary, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *attendanceService) MarkToday(ctx context.Context, entries []dto.MarkEntry) error {
	if len(entries) == 0 {
		return pkgerrors.ErrEmptyBatch
	}

	// 1. 状态合法性：非 present/absent 在触达存储前拒绝
	for _, e := range entries {
		if e.Status != model.StatusPresent && e.Status != model.StatusAbsent {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, e.Status)
		}
	}

	// 2. 引用完整性：批次中的每个 id 都必须是已存在的学生，
	// 否则整批拒绝而不是跳过（存储层外键是第二道防线）
	students, err := s.repo.User.ListStudents(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return err
	}
	studentIDs := make(map[uint]struct{}, len(students))
	for _, st := range students {
		studentIDs[st.ID] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := studentIDs[e.StudentID]; !ok {
			return fmt.Errorf("%w: id=%d", pkgerrors.ErrStudentNotFound, e.StudentID)
		}
	}

	// 3. 快速路径：当天已有记录直接拒绝。
	// 并发场景下真正的守卫是事务内的标记行主键，这里只省一次无谓的事务。
	date := s.now().Format(model.DateLayout)
	marked, err := s.repo.Attendance.HasAnyRecordFor(ctx, date)
	if err != nil {
		s.logger.Error("检查当日点名状态失败", zap.String("date", date), zap.Error(err))
		return err
	}
	if marked {
		return pkgerrors.ErrAlreadyMarked
	}

	// 4. 原子批次写入
	records := make([]model.AttendanceRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, model.AttendanceRecord{
			StudentID: e.StudentID,
			Date:      date,
			Status:    e.Status,
		})
	}

	if err := s.repo.Attendance.AppendBatch(ctx, date, records); err != nil {
		if errors.Is(err, pkgerrors.ErrAlreadyMarked) {
			return err
		}
		if errors.Is(err, pkgerrors.ErrStudentNotFound) {
			return err
		}
		s.logger.Error("写入点名批次失败", zap.String("date", date), zap.Error(err))
		return err
	}

	s.logger.Info("点名批次已提交",
		zap.String("date", date),
		zap.Int("entries", len(records)),
	)
	return nil
}

func (s *attendanceService) Summarize(ctx context.Context, studentID uint) (*dto.AttendanceSummary, error) {
	records, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}

	present, absent, err := countStatuses(records)
	if err != nil {
		s.logger.Error("台账数据完整性故障", zap.Uint("student_id", studentID), zap.Error(err))
		return nil, err
	}

	total := present + absent
	return &dto.AttendanceSummary{
		Present:    present,
		Absent:     absent,
		Total:      total,
		Percentage: percentage(present, total),
	}, nil
}

func (s *attendanceService) SummarizeRoster(ctx context.Context) ([]dto.StudentSummary, error) {
	students, err := s.repo.User.ListStudents(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}

	records, err := s.repo.Attendance.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询考勤台账失败", zap.Error(err))
		return nil, err
	}

	byStudent := make(map[uint][]model.AttendanceRecord, len(students))
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	// 无记录的学生同样进入名册（0%），教师需要看到他们
	roster := make([]dto.StudentSummary, 0, len(students))
	for _, st := range students {
		present, _, err := countStatuses(byStudent[st.ID])
		if err != nil {
			s.logger.Error("台账数据完整性故障", zap.Uint("student_id", st.ID), zap.Error(err))
			return nil, err
		}
		roster = append(roster, dto.StudentSummary{
			ID:         st.ID,
			Name:       st.Name,
			Email:      st.Email,
			Percentage: percentage(present, len(byStudent[st.ID])),
		})
	}

	return roster, nil
}

// countStatuses 统计 present/absent 数量；遇到其他状态值立即报错而非忽略
func countStatuses(records []model.AttendanceRecord) (present, absent int, err error) {
	for _, rec := range records {
		switch rec.Status {
		case model.StatusPresent:
			present++
		case model.StatusAbsent:
			absent++
		default:
			return 0, 0, fmt.Errorf("%w: id=%d status=%q", ErrCorruptRecord, rec.ID, rec.Status)
		}
	}
	return present, absent, nil
}

// percentage 四舍五入（half-up）；无记录时为 0，不做除零
func percentage(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

// Classify 阈值分类：出勤率达标为 satisfactory，否则为 defaulter
func Classify(pct int) string {
	if pct >= DefaulterThreshold {
		return ClassSatisfactory
	}
	return ClassDefaulter
}
