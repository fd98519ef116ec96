package service

import (
	"go.uber.org/zap"

	"github.com/NikhilSharma201/student-attendance-manager/config"
	"github.com/NikhilSharma201/student-attendance-manager/internal/repository"
	"github.com/NikhilSharma201/student-attendance-manager/pkg/jwt"
	"github.com/NikhilSharma201/student-attendance-manager/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Attendance AttendanceService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	attendanceSvc := NewAttendanceService(repo, logger)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Attendance: attendanceSvc,
		Export:     NewExportService(repo, logger),
	}
}
