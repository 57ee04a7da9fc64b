package main

import (
	"fmt"
	"log"

	_ "github.com/schoolhub-ng/schoolhub-api/api/swagger"
	"github.com/schoolhub-ng/schoolhub-api/internal/repository"
	"github.com/schoolhub-ng/schoolhub-api/internal/router"
	"github.com/schoolhub-ng/schoolhub-api/internal/service"
	"github.com/schoolhub-ng/schoolhub-api/pkg/cache"
	"github.com/schoolhub-ng/schoolhub-api/pkg/config"
	"github.com/schoolhub-ng/schoolhub-api/pkg/database"
	"github.com/schoolhub-ng/schoolhub-api/pkg/logger"
)

// @title SchoolHub API
// @version 1.0.0
// @description Role-based school management API
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	clubRepo := repository.NewClubRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	planRepo := repository.NewLessonPlanRepository(db)

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	}

	dashboardSvc := service.NewDashboardService(planRepo, profileRepo, assignmentRepo, userRepo, schoolRepo, studentRepo, cacheSvc, logr)
	authSvc := service.NewAuthService(userRepo, schoolRepo, dashboardSvc, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "schoolhub-api",
	})
	teacherSvc := service.NewTeacherService(profileRepo, planRepo, userRepo, dashboardSvc, nil, logr)
	reviewSvc := service.NewReviewService(planRepo, userRepo, dashboardSvc, nil, logr)
	parentSvc := service.NewParentService(profileRepo, assignmentRepo, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, userRepo, dashboardSvc, nil, logr)
	directorySvc := service.NewDirectoryService(studentRepo, courseRepo, clubRepo, assignmentRepo, nil, logr)
	exportSvc := service.NewExportService(reviewSvc, cfg.Exports.MaxRows, cfg.Exports.Enabled, logr)

	engine := router.New(router.Dependencies{
		Config:    cfg,
		Logger:    logr,
		Users:     userRepo,
		Auth:      authSvc,
		Dashboard: dashboardSvc,
		Teacher:   teacherSvc,
		Review:    reviewSvc,
		Parent:    parentSvc,
		School:    schoolSvc,
		Directory: directorySvc,
		Export:    exportSvc,
		Metrics:   metricsSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := engine.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
