package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
	pkgerrors "github.com/NikhilSharma201/student-attendance-manager/pkg/errors"
)

// AttendanceRepository 考勤台账数据访问接口
type AttendanceRepository interface {
	// HasAnyRecordFor 整个台账中该日期是否已有任何记录（点名守卫的读侧）
	HasAnyRecordFor(ctx context.Context, date string) (bool, error)
	// AppendBatch 在单个事务内写入一天的点名批次：
	// 先插入 mark_days 标记行（date 主键冲突 → ErrAlreadyMarked），
	// 再批量插入记录（外键冲突 → ErrStudentNotFound）。
	// 整批要么全部可见要么全部回滚，不存在半写的一天。
	AppendBatch(ctx context.Context, date string, records []model.AttendanceRecord) error
	ListByStudent(ctx context.Context, studentID uint) ([]model.AttendanceRecord, error)
	ListAll(ctx context.Context) ([]model.AttendanceRecord, error)
	// CountAll 台账记录总数（测试与诊断用）
	CountAll(ctx context.Context) (int64, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) HasAnyRecordFor(ctx context.Context, date string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("date = ?", date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *attendanceRepo) AppendBatch(ctx context.Context, date string, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return pkgerrors.ErrEmptyBatch
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 标记行的主键约束让并发的两次点名只有一次能通过，
		// 检查与写入不再是分离的两步
		if err := tx.Create(&model.MarkDay{Date: date}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.ErrAlreadyMarked
			}
			return err
		}

		if err := tx.Create(&records).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return pkgerrors.ErrStudentNotFound
			}
			return err
		}

		return nil
	})
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID uint) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepo) ListAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Count(&count).Error
	return count, err
}
