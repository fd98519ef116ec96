package dto

// ── 考勤模块 DTO ──

// MarkEntry 点名批次中的一条记录
type MarkEntry struct {
	StudentID uint   `json:"student_id" binding:"required"`
	Status    string `json:"status"     binding:"required"`
}

// MarkRequest 批量点名请求
// 日期不由客户端提交，网关按服务器本地时间解析"今天"
type MarkRequest struct {
	Attendance []MarkEntry `json:"attendance" binding:"required,min=1,dive"`
}

// MarkResponse 点名成功响应
type MarkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// StudentSummary 名册行：学生 + 出勤率
type StudentSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Percentage int    `json:"percentage"`
}

// AttendanceSummary 单个学生的考勤汇总
// 每次读取时从台账重新计算，present + absent = total 恒成立
type AttendanceSummary struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}
