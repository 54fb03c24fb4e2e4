package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/sahajlabs/exam-admin-gateway/internal/handler"
	"github.com/sahajlabs/exam-admin-gateway/internal/middleware"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	"github.com/sahajlabs/exam-admin-gateway/internal/repository"
	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	"github.com/sahajlabs/exam-admin-gateway/internal/upstream"
	"github.com/sahajlabs/exam-admin-gateway/pkg/config"
	"github.com/sahajlabs/exam-admin-gateway/pkg/logger"
	corsmiddleware "github.com/sahajlabs/exam-admin-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/sahajlabs/exam-admin-gateway/pkg/middleware/requestid"
)

type routerDeps struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *service.MetricsService
	upstream  *upstream.Client
	auditRepo *repository.AuditRepository

	classes  *service.ClassService
	streams  *service.StreamService
	subjects *service.SubjectService
	chapters *service.ChapterService
	topics   *service.TopicService
	courses  *service.CourseService
	exams    *service.ExamService
	packages *service.PackageService
	plans    *service.SubscriptionService
	mappings *service.MappingService
	reports  *service.ReportService
	trail    *service.AuditService
}

func buildRouter(deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.logger))
	r.Use(corsmiddleware.New(deps.cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	ops := handler.NewMetricsHandler(deps.metrics, deps.upstream)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)
	if deps.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.cfg.APIPrefix)
	api.Use(middleware.Auth(deps.cfg.Auth))
	api.Use(middleware.RBAC(deps.cfg.Auth.AdminRoles...))

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(deps.auditRepo, action, resource)
	}

	classes := api.Group("/classes")
	{
		h := handler.NewClassHandler(deps.classes)
		classes.GET("", h.List)
		classes.GET("/:id", h.Get)
		classes.POST("", audit(models.AuditActionCreate, "class"), h.Create)
		classes.PUT("/:id", audit(models.AuditActionUpdate, "class"), h.Update)
		classes.DELETE("/:id", audit(models.AuditActionDelete, "class"), h.Delete)
	}

	streams := api.Group("/streams")
	{
		h := handler.NewStreamHandler(deps.streams)
		streams.GET("", h.List)
		streams.GET("/:id", h.Get)
		streams.POST("", audit(models.AuditActionCreate, "stream"), h.Create)
		streams.PUT("/:id", audit(models.AuditActionUpdate, "stream"), h.Update)
		streams.DELETE("/:id", audit(models.AuditActionDelete, "stream"), h.Delete)
	}

	subjects := api.Group("/subjects")
	{
		h := handler.NewSubjectHandler(deps.subjects)
		subjects.GET("", h.List)
		subjects.GET("/:id", h.Get)
		subjects.POST("", audit(models.AuditActionCreate, "subject"), h.Create)
		subjects.PUT("/:id", audit(models.AuditActionUpdate, "subject"), h.Update)
		subjects.DELETE("/:id", audit(models.AuditActionDelete, "subject"), h.Delete)
	}

	chapters := api.Group("/chapters")
	{
		h := handler.NewChapterHandler(deps.chapters)
		chapters.GET("", h.List)
		chapters.GET("/:id", h.Get)
		chapters.POST("", audit(models.AuditActionCreate, "chapter"), h.Create)
		chapters.PUT("/:id", audit(models.AuditActionUpdate, "chapter"), h.Update)
		chapters.DELETE("/:id", audit(models.AuditActionDelete, "chapter"), h.Delete)
	}

	topics := api.Group("/topics")
	{
		h := handler.NewTopicHandler(deps.topics)
		topics.GET("", h.List)
		topics.GET("/:id", h.Get)
		topics.POST("", audit(models.AuditActionCreate, "topic"), h.Create)
		topics.PUT("/:id", audit(models.AuditActionUpdate, "topic"), h.Update)
		topics.DELETE("/:id", audit(models.AuditActionDelete, "topic"), h.Delete)
	}

	courses := api.Group("/courses")
	{
		h := handler.NewCourseHandler(deps.courses)
		courses.GET("", h.List)
		courses.GET("/:id", h.Get)
	}

	exams := api.Group("/exams")
	{
		h := handler.NewExamHandler(deps.exams)
		exams.GET("", h.List)
		exams.GET("/:id", h.Get)
		exams.POST("", audit(models.AuditActionCreate, "exam"), h.Create)
		exams.PUT("/:id", audit(models.AuditActionUpdate, "exam"), h.Update)
		exams.DELETE("/:id", audit(models.AuditActionDelete, "exam"), h.Delete)
	}

	packages := api.Group("/packages")
	{
		h := handler.NewPackageHandler(deps.packages)
		packages.GET("", h.List)
		packages.GET("/:id", h.Get)
		packages.POST("", audit(models.AuditActionCreate, "package"), h.Create)
		packages.PUT("/:id", audit(models.AuditActionUpdate, "package"), h.Update)
		packages.DELETE("/:id", audit(models.AuditActionDelete, "package"), h.Delete)
	}

	plans := api.Group("/subscriptions")
	{
		h := handler.NewSubscriptionHandler(deps.plans)
		plans.GET("", h.List)
		plans.GET("/:id", h.Get)
		plans.POST("", audit(models.AuditActionCreate, "subscription"), h.Create)
		plans.PUT("/:id", audit(models.AuditActionUpdate, "subscription"), h.Update)
		plans.DELETE("/:id", audit(models.AuditActionDelete, "subscription"), h.Delete)
	}

	mappings := api.Group("/subscription-packages")
	{
		h := handler.NewMappingHandler(deps.mappings)
		mappings.GET("", h.List)
		mappings.GET("/unmapped", h.Unmapped)
		mappings.POST("/bulk", audit(models.AuditActionMappingCreate, "subscription_package"), h.Create)
		mappings.PUT("/:subscriptionId", audit(models.AuditActionMappingUpdate, "subscription_package"), h.Replace)
		mappings.DELETE("/:subscriptionId", audit(models.AuditActionMappingDelete, "subscription_package"), h.Delete)
	}

	if deps.cfg.Reports.Enabled {
		reports := api.Group("/reports")
		h := handler.NewReportHandler(deps.reports)
		reports.GET("/subscriptions/overview", h.Overview)
		reports.GET("/dashboard", h.Dashboard)
	}

	if deps.trail != nil {
		h := handler.NewAuditHandler(deps.trail)
		api.GET("/audit-entries", h.List)
	}

	return r
}
