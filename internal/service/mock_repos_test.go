package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
	pkgerrors "github.com/NikhilSharma201/student-attendance-manager/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users []model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{}
}

func (m *mockUserRepo) add(id uint, name, email, password, role string) model.User {
	u := model.User{ID: id, Name: name, Email: email, Password: password, Role: role}
	m.users = append(m.users, u)
	return u
}

func (m *mockUserRepo) FindByCredentials(_ context.Context, email, password, role string) (*model.User, error) {
	for i := range m.users {
		u := &m.users[i]
		if u.Email == email && u.Password == password && u.Role == role {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListStudents(_ context.Context) ([]model.User, error) {
	var students []model.User
	for _, u := range m.users {
		if u.Role == model.RoleStudent {
			students = append(students, u)
		}
	}
	return students, nil
}

// ── Mock AttendanceRepository ──

// mockAttendanceRepo 按真实台账语义实现：标记日集合 + 只追加记录，
// appendErr 可注入存储故障（注入时不写入任何内容，模拟事务回滚）
type mockAttendanceRepo struct {
	records   []model.AttendanceRecord
	marked    map[string]bool
	appendErr error
	nextID    uint
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{marked: make(map[string]bool)}
}

func (m *mockAttendanceRepo) HasAnyRecordFor(_ context.Context, date string) (bool, error) {
	for _, rec := range m.records {
		if rec.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAttendanceRepo) AppendBatch(_ context.Context, date string, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return pkgerrors.ErrEmptyBatch
	}
	if m.appendErr != nil {
		return m.appendErr
	}
	if m.marked[date] {
		return pkgerrors.ErrAlreadyMarked
	}
	m.marked[date] = true
	for _, rec := range records {
		m.nextID++
		rec.ID = m.nextID
		m.records = append(m.records, rec)
	}
	return nil
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID uint) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, rec := range m.records {
		if rec.StudentID == studentID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListAll(_ context.Context) ([]model.AttendanceRecord, error) {
	return append([]model.AttendanceRecord(nil), m.records...), nil
}

func (m *mockAttendanceRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.records)), nil
}
