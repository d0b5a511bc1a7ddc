package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timetable-console/config"
	"timetable-console/internal/api/handler"
	"timetable-console/internal/api/middleware"
	"timetable-console/internal/model"
	"timetable-console/pkg/jwt"
	"timetable-console/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流均降级关闭
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// nil 指针不能直接赋给接口，否则中间件的 nil 判断失效
	var (
		blacklist middleware.TokenChecker
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": rdb != nil})
	})

	admin := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/admin/login", h.Auth.AdminLogin)
			auth.POST("/staff/login", h.Auth.StaffLogin)
		}

		// 公开课表（无需认证，限流）
		public := v1.Group("/public")
		public.Use(middleware.RateLimit(limiter, cfg.RateLimit.PublicLimit, cfg.RateLimit.PublicWindow))
		{
			public.GET("/timetables/:semester/:department", h.PublicTimetable.Get)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 课表模块
			timetables := authorized.Group("/timetables")
			{
				timetables.POST("/generate", admin, h.Timetable.Generate)
				timetables.GET("", admin, h.Timetable.List)
				timetables.GET("/versions/:type/:version", admin, h.Timetable.GetVersion)
				timetables.PUT("/versions/:type/:version/active", admin, h.Timetable.SetActive)
				timetables.GET("/active/:type", h.Timetable.GetActive)
				timetables.GET("/:semester/:department", h.Timetable.GetView)
				timetables.DELETE("/:semester/:department", admin, h.Timetable.Delete)
				timetables.GET("/:semester/:department/export.xlsx", h.Export.ExportExcel)
				timetables.GET("/:semester/:department/export.ics", h.Export.ExportICS)
			}

			// 课程模块
			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Subject.List)
				subjects.GET("/:id", h.Subject.GetByID)
				subjects.POST("", admin, h.Subject.Create)
				subjects.PUT("/:id", admin, h.Subject.Update)
				subjects.DELETE("/:id", admin, h.Subject.Delete)
			}

			// 教职工模块
			staff := authorized.Group("/staff")
			{
				staff.GET("", h.Staff.List)
				staff.GET("/:id", h.Staff.GetByID)
				staff.POST("", admin, h.Staff.Create)
				staff.PUT("/:id", admin, h.Staff.Update)
				staff.DELETE("/:id", admin, h.Staff.Delete)
			}

			// 作息配置模块
			configs := authorized.Group("/config")
			{
				configs.GET("", h.Config.List)
				configs.GET("/:id", h.Config.GetByID)
				configs.POST("", admin, h.Config.Create)
				configs.PUT("/:id", admin, h.Config.Update)
				configs.DELETE("/:id", admin, h.Config.Delete)
			}
		}
	}

	return r
}
