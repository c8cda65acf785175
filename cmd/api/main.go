package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/planilla-hr/planilla-api/internal/handler"
	"github.com/planilla-hr/planilla-api/internal/middleware"
	"github.com/planilla-hr/planilla-api/internal/repository"
	"github.com/planilla-hr/planilla-api/internal/service"
	"github.com/planilla-hr/planilla-api/internal/store"
	"github.com/planilla-hr/planilla-api/pkg/cache"
	"github.com/planilla-hr/planilla-api/pkg/config"
	"github.com/planilla-hr/planilla-api/pkg/database"
	"github.com/planilla-hr/planilla-api/pkg/jobs"
	"github.com/planilla-hr/planilla-api/pkg/logger"
	corsmiddleware "github.com/planilla-hr/planilla-api/pkg/middleware/cors"
	reqidmiddleware "github.com/planilla-hr/planilla-api/pkg/middleware/requestid"
	"github.com/planilla-hr/planilla-api/pkg/storage"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	// Redis is optional: without it roster lookups go straight to Postgres.
	var redisClient *redis.Client
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, roster cache disabled", "error", err)
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("export storage init failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	attendanceStore := store.New()

	rosterRepo := repository.NewRosterRepository(db)
	rosterLookup := repository.NewCachedRosterLookup(rosterRepo, redisClient, cfg.Imports.RosterCacheTTL, logr)
	settingsRepo := repository.NewSettingsRepository(db)

	metricsSvc := service.NewMetricsService()
	settingsSvc := service.NewSettingsService(settingsRepo, logr)
	importSvc := service.NewImportService(rosterLookup, attendanceStore, settingsSvc, metricsSvc, jobs.QueueConfig{
		Workers:    cfg.Imports.WorkerConcurrency,
		BufferSize: cfg.Imports.QueueBuffer,
		Logger:     logr,
	}, logr)
	importSvc.Start(ctx)
	defer importSvc.Stop()

	attendanceSvc := service.NewAttendanceService(attendanceStore, settingsSvc, logr)
	reportSvc := service.NewReportService(attendanceStore)
	exportSvc := service.NewExportService(attendanceStore, reportSvc, settingsSvc, exportStorage, logr)
	rosterSvc := service.NewRosterService(rosterRepo, rosterLookup, rosterLookup, logr)

	go cleanupExports(ctx, exportStorage, cfg.Exports, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Imports:    handler.NewImportHandler(importSvc, attendanceSvc, cfg.Imports.MaxFileSizeBytes),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Reports:    handler.NewReportHandler(reportSvc),
		Exports:    handler.NewExportHandler(exportSvc),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Roster:     handler.NewRosterHandler(rosterSvc),
		Metrics:    metricsSvc.Handler(),
		Ready: func(c *gin.Context) {
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}

// cleanupExports periodically removes stale export files.
func cleanupExports(ctx context.Context, st *storage.LocalStorage, cfg config.ExportsConfig, logr *zap.Logger) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := st.CleanupOlderThan(cfg.RetentionTTL)
			if err != nil {
				logr.Sugar().Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(deleted) > 0 {
				logr.Sugar().Infow("stale exports removed", "count", len(deleted))
			}
		}
	}
}
