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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/dataacademy-api/api/swagger"
	"github.com/noah-isme/dataacademy-api/internal/handler"
	"github.com/noah-isme/dataacademy-api/internal/middleware"
	"github.com/noah-isme/dataacademy-api/internal/repository"
	"github.com/noah-isme/dataacademy-api/internal/service"
	"github.com/noah-isme/dataacademy-api/pkg/config"
	"github.com/noah-isme/dataacademy-api/pkg/database"
	"github.com/noah-isme/dataacademy-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/dataacademy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dataacademy-api/pkg/middleware/requestid"
)

// @title DataAcademy API
// @version 1.0.0
// @description Students, teachers, courses and enrollments with analytical reports.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
		logr.Info("schema ready")
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}
	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	enrollmentSvc := service.NewEnrollmentService(repository.NewEnrollmentRepository(db), validate, metrics, logr)
	studentSvc := service.NewStudentService(studentRepo, enrollmentSvc, validate, logr, cfg.Students.SearchLimit)
	teacherSvc := service.NewTeacherService(repository.NewTeacherRepository(db), validate, logr)
	courseSvc := service.NewCourseService(repository.NewCourseRepository(db), validate, metrics, logr)
	catalogSvc := service.NewCatalogService(repository.NewCatalogRepository(db), studentRepo, validate, metrics, logr)
	insightSvc := service.NewInsightService(repository.NewInsightRepository(db), metrics, logr)
	exportSvc := service.NewExportService(logr, nil, nil)

	metricsHandler := handler.NewMetricsHandler(metrics, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Students:    handler.NewStudentHandler(studentSvc),
		Teachers:    handler.NewTeacherHandler(teacherSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
		Catalog:     handler.NewCatalogHandler(catalogSvc, exportSvc),
		Insights:    handler.NewInsightHandler(insightSvc),
		Metrics:     metricsHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
