package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anhpls/uniflo/config"
	"github.com/anhpls/uniflo/internal/api/handler"
	"github.com/anhpls/uniflo/internal/api/middleware"
	"github.com/anhpls/uniflo/pkg/redis"
)

// Parse runs are the expensive surface (model calls, file reads), so they
// get their own rate limit.
const (
	parseLimit  = 10
	parseWindow = time.Minute
)

// Setup builds the gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		uploads := v1.Group("/uploads")
		{
			uploads.POST("", h.Upload.Store)
			uploads.GET("/:id", h.Upload.Get)
			uploads.POST("/:id/parse", middleware.RateLimit(rdb, parseLimit, parseWindow), h.Syllabus.Parse)
		}

		syllabus := v1.Group("/syllabus")
		{
			syllabus.POST("/preview", h.Syllabus.Preview)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.List)
			courses.GET("/:id", h.Course.Get)
			courses.DELETE("/:id", h.Course.Delete)
			courses.GET("/:id/export/xlsx", h.Course.ExportXLSX)
			courses.GET("/:id/export/ics", h.Course.ExportICS)
		}

		files := v1.Group("/files")
		{
			files.GET("/:key", h.File.Download)
		}
	}

	return r
}
