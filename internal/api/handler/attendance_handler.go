package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NikhilSharma201/student-attendance-manager/internal/dto"
	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
	"github.com/NikhilSharma201/student-attendance-manager/internal/service"
	pkgerrors "github.com/NikhilSharma201/student-attendance-manager/pkg/errors"
	"github.com/NikhilSharma201/student-attendance-manager/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// ListStudents 名册视图：全部学生及其出勤率（教师）
// GET /students
func (h *AttendanceHandler) ListStudents(c *gin.Context) {
	roster, err := h.attendanceSvc.SummarizeRoster(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, roster)
}

// Mark 提交今天的点名批次（教师）
// POST /mark
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req dto.MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "考勤数据无效")
		return
	}

	if err := h.attendanceSvc.MarkToday(c.Request.Context(), req.Attendance); err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrAlreadyMarked):
			response.BadRequest(c, "今日考勤已提交")
		case errors.Is(err, pkgerrors.ErrStudentNotFound),
			errors.Is(err, pkgerrors.ErrEmptyBatch),
			errors.Is(err, service.ErrInvalidStatus):
			response.BadRequest(c, "考勤数据无效")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, dto.MarkResponse{Success: true, Message: "考勤已提交"})
}

// GetSummary 单个学生的考勤汇总
// GET /attendance/:id
// 教师可查任意学生；学生只能查自己（网关层能力检查，不信任客户端 id）
func (h *AttendanceHandler) GetSummary(c *gin.Context) {
	studentID, ok := authorizeStudentAccess(c)
	if !ok {
		return
	}

	summary, err := h.attendanceSvc.Summarize(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}

// authorizeStudentAccess 解析路径中的学生 id 并做角色能力检查，
// 考勤汇总与日历导出共用
func authorizeStudentAccess(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "学生 id 无效")
		return 0, false
	}
	studentID := uint(id)

	role := c.GetString("role")
	if role != model.RoleTeacher && c.GetUint("user_id") != studentID {
		response.Forbidden(c, "无权限访问")
		return 0, false
	}

	return studentID, true
}
