package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chrono-union/backend/config"
	"chrono-union/backend/internal/api/handler"
	"chrono-union/backend/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 时区模块
		timezone := v1.Group("/timezone")
		{
			timezone.GET("/validate", h.Timezone.ValidateTimezone)
			timezone.POST("/convert", h.Timezone.ConvertTimezone)
			timezone.POST("/validate-datetime", h.Timezone.ValidateDateTime)
			timezone.GET("/now", h.Timezone.GetCurrentTime)
			timezone.POST("/format", h.Timezone.FormatDateTime)
			timezone.POST("/duration", h.Timezone.CalculateDuration)
			timezone.GET("/offset", h.Timezone.GetTimezoneOffset)
		}

		// 日历事件模块
		events := v1.Group("/events")
		{
			events.POST("", h.Event.CreateEvent)
			events.GET("", h.Event.ListEvents)
			events.GET("/:id", h.Event.GetEvent)
			events.PUT("/:id", h.Event.UpdateEvent)
			events.DELETE("/:id", h.Event.DeleteEvent)
			events.POST("/:id/reminders", h.Event.CreateReminder)

			events.POST("/:id/instances/generate", h.Instance.GenerateInstances)
			events.GET("/:id/instances", h.Instance.ListInstances)
			events.PUT("/:id/instances/:date", h.Instance.ModifyInstanceByDate)
			events.POST("/:id/instances/:date/cancel", h.Instance.CancelInstanceByDate)
			events.POST("/:id/validate", h.Integrity.ValidateEvent)
			events.GET("/:id/ics", h.Export.GetEventICS)
		}
		instances := v1.Group("/instances")
		{
			instances.PUT("/:id", h.Instance.ModifyInstance)
			instances.POST("/:id/cancel", h.Instance.CancelInstance)
		}

		// 数据完整性模块
		integrity := v1.Group("/integrity")
		{
			integrity.GET("/report", h.Integrity.GetIntegrityReport)
			integrity.POST("/cleanup", h.Integrity.RunCleanup)
		}

		// 定时任务模块
		jobs := v1.Group("/jobs")
		{
			jobs.GET("", h.Job.ListJobs)
			jobs.POST("/:name/run", h.Job.RunJob)
		}

		// 导出模块
		v1.GET("/export/instances", h.Export.ExportInstances)
	}

	return r
}
