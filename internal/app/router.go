package app

import (
	"campus_club_backend/docs"
	"campus_club_backend/internal/config"
	"campus_club_backend/internal/middleware"
	"campus_club_backend/internal/model"
	"campus_club_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 考勤接口（限流）
	a.registerAttendanceRoutes(router, c, cfg)

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerMemberRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 4. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/settings", c.setting.All)

		public.GET("/events", middleware.OptionalAuth(cfg), c.event.List)
		public.GET("/events/:id", middleware.OptionalAuth(cfg), c.event.Get)
	}
}

func (a *App) registerAttendanceRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	records := router.Group("/api/attendance")
	records.Use(
		middleware.IngestionGate(a.Gate),
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.RoleTeacher),
	)
	{
		records.POST("", c.attendance.Create)
		records.GET("", c.attendance.List)
		records.DELETE("/:id", c.attendance.Delete)
	}

	sessions := router.Group("/api/attendance/sessions")
	sessions.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleTeacher))
	{
		sessions.POST("", c.attendance.CreateSession)
		sessions.GET("", c.attendance.ListSessions)
		sessions.GET("/:id/summary", c.attendance.Summary)
		sessions.PATCH("/:id/close", c.attendance.CloseSession)
		sessions.DELETE("/:id", c.attendance.DeleteSession)
	}

	router.GET("/api/realtime/attendance/:sessionId",
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.RoleTeacher),
		c.attendance.Realtime,
	)
}

func (a *App) registerMemberRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.Profile)

	group.GET("/teachers", c.teacher.List)
	group.GET("/teachers/:id", c.teacher.Get)

	group.GET("/courses", c.course.List)
	group.GET("/courses/:id", c.course.Get)

	challenges := group.Group("/challenges")
	{
		challenges.GET("", c.challenge.List)
		challenges.GET("/:id", c.challenge.Get)
		challenges.POST("/:id/start", c.challenge.Start)
		challenges.POST("/:id/submissions", c.challenge.Submit)
		challenges.GET("/:id/submissions/me", c.challenge.MySubmissions)
	}

	group.GET("/leaderboard", c.leaderboard.Top)
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("")
	teacher.Use(middleware.RoleMiddleware(model.RoleTeacher))
	{
		teacher.POST("/courses", c.course.Create)
		teacher.PUT("/courses/:id", c.course.Update)
		teacher.DELETE("/courses/:id", c.course.Delete)

		teacher.POST("/events", c.event.Create)
		teacher.PUT("/events/:id", c.event.Update)
		teacher.DELETE("/events/:id", c.event.Delete)
		teacher.POST("/events/:id/poster", c.event.UploadPoster)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Get)
		admin.PATCH("/users/:id", c.user.Update)
		admin.POST("/users/:id/reset-password", c.user.ResetPassword)
		admin.DELETE("/users/:id", c.user.Delete)

		admin.POST("/teachers", c.teacher.Create)
		admin.PUT("/teachers/:id", c.teacher.Update)
		admin.DELETE("/teachers/:id", c.teacher.Delete)

		admin.POST("/challenges", c.challenge.Create)
		admin.PUT("/challenges/:id", c.challenge.Update)
		admin.DELETE("/challenges/:id", c.challenge.Delete)
		admin.GET("/challenges/:id/submissions", c.challenge.ListSubmissions)

		admin.PUT("/settings/:key", c.setting.Set)
		admin.DELETE("/settings/:key", c.setting.Delete)

		admin.GET("/stats", c.stats.Overview)
	}
}
