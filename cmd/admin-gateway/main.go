package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/sahajlabs/exam-admin-gateway/api/swagger"
	"github.com/sahajlabs/exam-admin-gateway/internal/catalog"
	"github.com/sahajlabs/exam-admin-gateway/internal/repository"
	"github.com/sahajlabs/exam-admin-gateway/internal/service"
	"github.com/sahajlabs/exam-admin-gateway/internal/upstream"
	"github.com/sahajlabs/exam-admin-gateway/pkg/cache"
	"github.com/sahajlabs/exam-admin-gateway/pkg/config"
	"github.com/sahajlabs/exam-admin-gateway/pkg/database"
	"github.com/sahajlabs/exam-admin-gateway/pkg/logger"
)

// @title Exam Admin Gateway
// @version 1.0.0
// @description Administrative gateway for the exam platform: taxonomy, exams, packages, subscriptions and reports.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	client := upstream.NewClient(cfg.Upstream, logr)
	client.SetRecorder(metricsSvc)

	cat := catalog.New(client, cfg.Catalog.TTL)

	var cacheSvc *service.CacheService
	if cfg.Reports.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, logr)
		}
	}

	var auditRepo *repository.AuditRepository
	var trailSvc *service.AuditService
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Warn("audit store unavailable, audit trail disabled", zap.Error(err))
		} else {
			defer db.Close() //nolint:errcheck
			auditRepo = repository.NewAuditRepository(db)
			trailSvc = service.NewAuditService(auditRepo, logr)
		}
	}

	validate := validator.New()

	deps := routerDeps{
		cfg:       cfg,
		logger:    logr,
		metrics:   metricsSvc,
		upstream:  client,
		auditRepo: auditRepo,
		classes:   service.NewClassService(cat, client, validate, logr),
		streams:   service.NewStreamService(cat, client, validate, logr),
		subjects:  service.NewSubjectService(cat, client, validate, logr),
		chapters:  service.NewChapterService(cat, client, validate, logr),
		topics:    service.NewTopicService(cat, client, validate, logr),
		courses:   service.NewCourseService(cat, logr),
		exams:     service.NewExamService(cat, client, validate, logr),
		packages:  service.NewPackageService(cat, client, validate, logr),
		plans:     service.NewSubscriptionService(cat, client, cacheSvc, validate, logr),
		mappings:  service.NewMappingService(cat, client, cacheSvc, validate, logr),
		reports:   service.NewReportService(client, cacheSvc, cfg.Reports.CacheTTL, logr),
		trail:     trailSvc,
	}

	router := buildRouter(deps)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refresher := catalog.NewRefresher(cat, cfg.Catalog, cfg.Upstream.ServiceToken, logr, metricsSvc)
	refresher.Start(ctx)
	defer refresher.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
