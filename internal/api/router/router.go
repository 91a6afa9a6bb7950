package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alpimi-planner/backend/config"
	"alpimi-planner/backend/internal/api/handler"
	"alpimi-planner/backend/internal/api/middleware"
	"alpimi-planner/backend/pkg/jwt"
	"alpimi-planner/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时认证中间件跳过 Token 黑名单检查，写接口不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 & 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var blacklist middleware.TokenBlacklist
	var limiter middleware.RateLimiter
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}
	writeLimit := middleware.RateLimit(limiter, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window, logger)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
	{
		// 课时块模块
		blocks := v1.Group("/lesson-blocks")
		{
			blocks.GET("", h.LessonBlock.ListLessonBlocks)
			blocks.GET("/export", h.Export.ExportSchedule)
			blocks.GET("/:id", h.LessonBlock.GetLessonBlock)
			blocks.POST("", writeLimit, h.LessonBlock.CreateLessonBlock)
			blocks.PATCH("/:id", writeLimit, h.LessonBlock.UpdateLessonBlock)
			blocks.DELETE("/:id", writeLimit, h.LessonBlock.DeleteLessonBlock)
		}
	}

	return r
}
