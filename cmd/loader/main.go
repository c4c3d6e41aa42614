package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/dataacademy-api/internal/models"
	"github.com/noah-isme/dataacademy-api/internal/repository"
	"github.com/noah-isme/dataacademy-api/internal/service"
	"github.com/noah-isme/dataacademy-api/pkg/config"
	"github.com/noah-isme/dataacademy-api/pkg/database"
	"github.com/noah-isme/dataacademy-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dir := flag.String("dir", cfg.Loader.DataDir, "directory holding teachers.csv, students.csv, courses.csv and enrollments.csv")
	migrate := flag.Bool("migrate", true, "apply the schema before loading")
	truncate := flag.Bool("truncate", false, "empty every table before loading")
	flag.Parse()

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

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	loader := service.NewLoaderService(repository.NewBulkRepository(db), logr)
	summary, err := loader.Load(ctx, os.DirFS(*dir), models.LoadOptions{Truncate: *truncate})
	if err != nil {
		logr.Fatal("load failed", zap.String("dir", *dir), zap.Error(err))
	}
	logr.Info("load complete", zap.String("dir", *dir), zap.Any("counts", summary.Counts))
}
