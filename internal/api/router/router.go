package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"university-platform/backend/config"
	"university-platform/backend/internal/api/handler"
	"university-platform/backend/internal/api/middleware"
	"university-platform/backend/pkg/jwt"
	"university-platform/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins, cfg.Server.CORS.MaxAge))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块（仅管理员）
			users := authorized.Group("/users", middleware.RoleAuth("admin"))
			{
				users.POST("", h.User.Create)
				users.GET("", h.User.List)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", h.User.Update)
				users.PUT("/:id/status", h.User.UpdateStatus)
				users.DELETE("/:id", h.User.Delete)
				users.POST("/:id/reset-password", h.User.ResetPassword)
			}

			// 组织结构模块：部门 / 专业 / 年级 / 班组
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.List)
				departments.GET("/:id", h.Department.Get)
				departments.POST("", middleware.RoleAuth("admin"), h.Department.Create)
				departments.PUT("/:id", middleware.RoleAuth("admin"), h.Department.Update)
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.Delete)
			}
			specialties := authorized.Group("/specialties")
			{
				specialties.GET("", h.Department.ListSpecialties)
				specialties.POST("", middleware.RoleAuth("admin"), h.Department.CreateSpecialty)
			}
			levels := authorized.Group("/levels")
			{
				levels.GET("", h.Department.ListLevels)
				levels.POST("", middleware.RoleAuth("admin"), h.Department.CreateLevel)
			}
			groups := authorized.Group("/groups")
			{
				groups.GET("", h.Department.ListGroups)
				groups.GET("/:id", h.Department.GetGroup)
				groups.POST("", middleware.RoleAuth("admin"), h.Department.CreateGroup)
				groups.PUT("/:id", middleware.RoleAuth("admin"), h.Department.UpdateGroup)
				groups.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.DeleteGroup)
			}

			// 教室模块
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.List)
				rooms.GET("/:id", h.Room.Get)
				rooms.POST("", middleware.RoleAuth("admin"), h.Room.Create)
				rooms.PUT("/:id", middleware.RoleAuth("admin"), h.Room.Update)
				rooms.DELETE("/:id", middleware.RoleAuth("admin"), h.Room.Delete)
			}

			// 科目模块
			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Subject.List)
				subjects.GET("/:id", h.Subject.Get)
				subjects.POST("", middleware.RoleAuth("admin"), h.Subject.Create)
				subjects.PUT("/:id", middleware.RoleAuth("admin"), h.Subject.Update)
				subjects.DELETE("/:id", middleware.RoleAuth("admin"), h.Subject.Delete)
			}

			// 学期模块
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Semester.List)
				semesters.GET("/active", h.Semester.GetActive)
				semesters.GET("/:id", h.Semester.Get)
				semesters.POST("", middleware.RoleAuth("admin"), h.Semester.Create)
				semesters.PUT("/:id", middleware.RoleAuth("admin"), h.Semester.Update)
				semesters.PUT("/:id/activate", middleware.RoleAuth("admin"), h.Semester.Activate)
				semesters.PUT("/:id/archive", middleware.RoleAuth("admin"), h.Semester.Archive)
			}

			// 课表模块：写操作限管理员/系主任，读操作由 Service 层按角色限定可见范围
			timetable := authorized.Group("/timetable")
			{
				timetable.POST("/slots", middleware.RoleAuth("admin", "department_head"), h.Schedule.CreateSlot)
				timetable.GET("/slots/:id", h.Schedule.GetSlot)
				timetable.PUT("/slots/:id", middleware.RoleAuth("admin", "department_head"), h.Schedule.UpdateSlot)
				timetable.DELETE("/slots/:id", middleware.RoleAuth("admin", "department_head"), h.Schedule.DeleteSlot)
				timetable.GET("/groups/:id/week", h.Schedule.GroupWeek)
				timetable.GET("/teachers/:id/week", h.Schedule.TeacherWeek)
				timetable.GET("/availability", h.Schedule.CheckAvailability)
			}

			// 缺勤模块：记录/审核的角色与范围校验在 Service 层
			absences := authorized.Group("/absences")
			{
				absences.POST("", h.Absence.Record)
				absences.GET("", h.Absence.List)
				absences.GET("/:id", h.Absence.Get)
				absences.POST("/:id/excuse", h.Absence.SubmitExcuse)
				absences.PUT("/:id/review", h.Absence.Review)
				absences.DELETE("/:id", h.Absence.Delete)
				absences.GET("/students/:id/summary", h.Absence.Summary)
			}

			// 通知模块（仅本人）
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/groups/:id/ics", h.Export.ExportGroupICS)
			}

			// 系统配置模块
			systemConfig := authorized.Group("/system-config")
			{
				systemConfig.GET("/absence-policy", h.SystemConfig.Get)
				systemConfig.PUT("/absence-policy", middleware.RoleAuth("admin"), h.SystemConfig.Update)
			}
		}
	}

	return r
}
