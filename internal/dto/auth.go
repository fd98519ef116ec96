package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// 三个字段均必填；角色取值不在此处校验——
// 角色不匹配与密码错误一样表现为"查无此用户"(401)。
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"     binding:"required"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Success     bool         `json:"success"`
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
}

// UserResponse 用户信息响应（脱敏，不含密码）
type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
