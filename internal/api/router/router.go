package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NikhilSharma201/student-attendance-manager/config"
	"github.com/NikhilSharma201/student-attendance-manager/internal/api/handler"
	"github.com/NikhilSharma201/student-attendance-manager/internal/api/middleware"
	"github.com/NikhilSharma201/student-attendance-manager/internal/model"
	"github.com/NikhilSharma201/student-attendance-manager/pkg/jwt"
	"github.com/NikhilSharma201/student-attendance-manager/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// 路径与既有前端约定保持一致（/login /students /mark /attendance/:id），
// 读写操作按角色门控：名册与点名仅教师可用，学生只能查自己的汇总。
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── 认证（无需登录）──
	r.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)

	// ── 需要认证的路由 ──
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authorized.POST("/logout", h.Auth.Logout)
		authorized.GET("/me", h.Auth.GetCurrentUser)

		// 教师操作
		authorized.GET("/students", middleware.RoleAuth(model.RoleTeacher), h.Attendance.ListStudents)
		authorized.POST("/mark", middleware.RoleAuth(model.RoleTeacher), h.Attendance.Mark)
		authorized.GET("/export/roster", middleware.RoleAuth(model.RoleTeacher), h.Export.ExportRoster)

		// 学生本人或教师（Handler 层鉴权）
		authorized.GET("/attendance/:id", h.Attendance.GetSummary)
		authorized.GET("/attendance/:id/calendar", h.Export.ExportCalendar)
	}

	return r
}
