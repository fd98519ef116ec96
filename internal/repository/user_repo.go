package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByCredentials 按 email+password+role 三字段精确匹配查找单个用户
	// 查不到返回 gorm.ErrRecordNotFound；凭证校验就是一次查找，没有中间态
	FindByCredentials(ctx context.Context, email, password, role string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	// ListStudents 返回全部学生，按创建顺序（自增 id 升序）
	ListStudents(ctx context.Context) ([]model.User, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByCredentials(ctx context.Context, email, password, role string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND password = ? AND role = ?", email, password, role).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ListStudents(ctx context.Context) ([]model.User, error) {
	var students []model.User
	err := r.db.WithContext(ctx).
		Where("role = ?", model.RoleStudent).
		Order("id ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
