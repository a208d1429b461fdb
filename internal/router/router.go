package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/handler"
	"github.com/noah-isme/gradebook-api/internal/middleware"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/config"
	"github.com/noah-isme/gradebook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Classes     *handler.ClassHandler
	Students    *handler.StudentHandler
	Enrollments *handler.EnrollmentHandler
	Reports     *handler.ReportHandler
	Metrics     *handler.MetricsHandler
}

// ReadinessCheck reports whether backing stores are reachable.
type ReadinessCheck func(ctx context.Context) error

// New builds the gin engine with middleware, system endpoints and API routes.
func New(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h Handlers, ready ReadinessCheck) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				logr.Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", h.Metrics.Summary)

	classes := api.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", h.Classes.Create)
	classes.GET("/:classId", h.Classes.Get)
	classes.DELETE("/:classId", h.Classes.Delete)

	classes.GET("/:classId/enrollments", h.Enrollments.List)
	classes.POST("/:classId/enrollments", h.Enrollments.Enroll)
	classes.DELETE("/:classId/enrollments/:studentId", h.Enrollments.Unenroll)
	classes.GET("/:classId/enrollments/:studentId/evaluations", h.Enrollments.ListEvaluations)
	classes.PUT("/:classId/enrollments/:studentId/evaluations/:goal", h.Enrollments.SetEvaluation)
	classes.DELETE("/:classId/enrollments/:studentId/evaluations/:goal", h.Enrollments.ClearEvaluation)

	classes.GET("/:classId/report", h.Reports.ClassReport)
	classes.GET("/:classId/report/export", h.Reports.ExportClassReport)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:studentId", h.Students.Get)
	students.PUT("/:studentId", h.Students.Update)
	students.DELETE("/:studentId", h.Students.Delete)

	return r
}
