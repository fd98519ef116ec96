package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/NikhilSharma201/student-attendance-manager/internal/service"
	"github.com/NikhilSharma201/student-attendance-manager/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出考勤名册（教师）
// GET /export/roster
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoStudents) {
			response.NotFound(c, "暂无学生可导出")
			return
		}
		response.InternalError(c)
		return
	}

	sendFile(c, buf.Bytes(), filename, xlsxContentType)
}

// ExportCalendar 导出单个学生的考勤日历
// GET /attendance/:id/calendar
// 访问规则与考勤汇总一致：教师或学生本人
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	studentID, ok := authorizeStudentAccess(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	sendFile(c, buf.Bytes(), filename, icsContentType)
}

// sendFile 设置下载响应头并写出文件内容
func sendFile(c *gin.Context, data []byte, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
