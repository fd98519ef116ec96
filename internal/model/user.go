package model

// 角色取值
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User 用户表 — 对应 users
// 密码按原样存储并按原样比对（与既有前端/种子数据的行为约定一致），
// 登录即单行查找，不做散列或规整。
type User struct {
	ID       uint   `gorm:"primaryKey"                    json:"id"`
	Name     string `gorm:"type:varchar(100);not null"    json:"name"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password string `gorm:"type:varchar(255);not null"    json:"-"`
	Role     string `gorm:"type:varchar(20);not null"     json:"role"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
