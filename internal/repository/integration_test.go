//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
	"github.com/NikhilSharma201/student-attendance-manager/internal/repository"
	pkgerrors "github.com/NikhilSharma201/student-attendance-manager/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=attendance password=attendance dbname=attendance_test sslmode=disable"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.User{},
		&model.AttendanceRecord{},
		&model.MarkDay{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// cleanTables 清空业务表，保证用例独立
func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"attendance", "mark_days", "users"} {
		if err := testDB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("清空表 %s 失败: %v", table, err)
		}
	}
}

func seedStudent(t *testing.T, id uint, name, email string) {
	t.Helper()
	u := model.User{ID: id, Name: name, Email: email, Password: "12345", Role: model.RoleStudent}
	if err := testDB.Create(&u).Error; err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceRepository
// ═══════════════════════════════════════════════════════════

func TestAttendanceRepo_AppendBatch_Atomic(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repository.NewAttendanceRepo(testDB)

	seedStudent(t, 1, "Amit", "amit@student.com")
	seedStudent(t, 2, "Sara", "sara@student.com")

	err := repo.AppendBatch(ctx, "2024-05-01", []model.AttendanceRecord{
		{StudentID: 1, Date: "2024-05-01", Status: model.StatusPresent},
		{StudentID: 2, Date: "2024-05-01", Status: model.StatusAbsent},
	})
	if err != nil {
		t.Fatalf("AppendBatch 应成功: %v", err)
	}

	has, err := repo.HasAnyRecordFor(ctx, "2024-05-01")
	if err != nil || !has {
		t.Fatalf("期望当日已有记录: has=%v err=%v", has, err)
	}

	count, _ := repo.CountAll(ctx)
	if count != 2 {
		t.Errorf("期望2条记录，实际=%d", count)
	}
}

func TestAttendanceRepo_AppendBatch_AlreadyMarked(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repository.NewAttendanceRepo(testDB)

	seedStudent(t, 1, "Amit", "amit@student.com")
	seedStudent(t, 2, "Sara", "sara@student.com")

	if err := repo.AppendBatch(ctx, "2024-05-01", []model.AttendanceRecord{
		{StudentID: 1, Date: "2024-05-01", Status: model.StatusPresent},
	}); err != nil {
		t.Fatalf("首次 AppendBatch 应成功: %v", err)
	}
	before, _ := repo.CountAll(ctx)

	// 同一天的第二个批次被标记行主键拒绝，台账不变
	err := repo.AppendBatch(ctx, "2024-05-01", []model.AttendanceRecord{
		{StudentID: 2, Date: "2024-05-01", Status: model.StatusPresent},
	})
	if !errors.Is(err, pkgerrors.ErrAlreadyMarked) {
		t.Fatalf("期望 ErrAlreadyMarked，实际: %v", err)
	}

	after, _ := repo.CountAll(ctx)
	if before != after {
		t.Errorf("失败的批次不应改变台账: 之前=%d 之后=%d", before, after)
	}
}

func TestAttendanceRepo_AppendBatch_ForeignKeyRollback(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repository.NewAttendanceRepo(testDB)

	seedStudent(t, 1, "Amit", "amit@student.com")

	// 批次中引用不存在的学生 → 外键冲突 → 整个事务回滚
	err := repo.AppendBatch(ctx, "2024-05-01", []model.AttendanceRecord{
		{StudentID: 1, Date: "2024-05-01", Status: model.StatusPresent},
		{StudentID: 99, Date: "2024-05-01", Status: model.StatusAbsent},
	})
	if !errors.Is(err, pkgerrors.ErrStudentNotFound) {
		t.Fatalf("期望 ErrStudentNotFound，实际: %v", err)
	}

	count, _ := repo.CountAll(ctx)
	if count != 0 {
		t.Errorf("回滚后不应留下任何记录，实际=%d", count)
	}

	// 标记行也必须随事务回滚，否则当天会被永久锁死
	if err := repo.AppendBatch(ctx, "2024-05-01", []model.AttendanceRecord{
		{StudentID: 1, Date: "2024-05-01", Status: model.StatusPresent},
	}); err != nil {
		t.Fatalf("修正后重试应成功: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// UserRepository
// ═══════════════════════════════════════════════════════════

func TestUserRepo_FindByCredentials(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repository.NewUserRepo(testDB)

	u := model.User{Name: "Mr. Raj", Email: "raj@school.com", Password: "12345", Role: model.RoleTeacher}
	if err := testDB.Create(&u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	found, err := repo.FindByCredentials(ctx, "raj@school.com", "12345", model.RoleTeacher)
	if err != nil {
		t.Fatalf("FindByCredentials 应成功: %v", err)
	}
	if found.Name != "Mr. Raj" {
		t.Errorf("用户不符: %+v", found)
	}

	// 角色不匹配 → 查无此人
	_, err = repo.FindByCredentials(ctx, "raj@school.com", "12345", model.RoleStudent)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("期望 ErrRecordNotFound，实际: %v", err)
	}
}

func TestUserRepo_ListStudents_InsertionOrder(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := repository.NewUserRepo(testDB)

	testDB.Create(&model.User{Name: "Mr. Raj", Email: "raj@school.com", Password: "12345", Role: model.RoleTeacher})
	seedStudent(t, 10, "Amit", "amit@student.com")
	seedStudent(t, 11, "Sara", "sara@student.com")

	students, err := repo.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents 应成功: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("期望2名学生（不含教师），实际=%d", len(students))
	}
	if students[0].Name != "Amit" || students[1].Name != "Sara" {
		t.Errorf("应按创建顺序返回: %v", students)
	}
}
