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

	_ "github.com/noah-isme/room-allocation-api/api/swagger"
	"github.com/noah-isme/room-allocation-api/internal/handler"
	"github.com/noah-isme/room-allocation-api/internal/middleware"
	"github.com/noah-isme/room-allocation-api/internal/repository"
	"github.com/noah-isme/room-allocation-api/internal/service"
	"github.com/noah-isme/room-allocation-api/migrations"
	"github.com/noah-isme/room-allocation-api/pkg/cache"
	"github.com/noah-isme/room-allocation-api/pkg/config"
	"github.com/noah-isme/room-allocation-api/pkg/database"
	"github.com/noah-isme/room-allocation-api/pkg/jobs"
	"github.com/noah-isme/room-allocation-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/room-allocation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/room-allocation-api/pkg/middleware/requestid"
	"github.com/noah-isme/room-allocation-api/pkg/tracing"
)

// @title Room Allocation API
// @version 1.0.0
// @description Weekly project-room and Oasis desk allocation
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

	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		logr.Fatal("failed to init tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, migrations.Files, logr); err != nil {
		logr.Fatal("failed to apply migrations", zap.Error(err))
	}

	readiness := map[string]handler.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
	}

	// interface-typed so a disabled Redis stays a true nil
	var (
		cacheClient repository.CacheClient
		lockClient  repository.LockClient
	)
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err), zap.String("addr", cache.Addr(cfg.Redis)))
		}
		defer rdb.Close()
		cacheClient, lockClient = rdb, rdb
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		logr.Warn("redis disabled; caching is off and the run lock only covers this process")
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()
	preferenceRepo := repository.NewPreferenceRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)
	runLock := repository.NewRunLock(lockClient, cache.Key("lock", "allocation-run"), cfg.Allocation.LockTTL)
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(cacheClient, logr), metricsSvc, cfg.Allocation.CacheTTL, logr, cacheClient != nil)

	preferenceSvc := service.NewPreferenceService(preferenceRepo, validate, logr)
	allocationSvc := service.NewAllocationService(preferenceRepo, allocationRepo, runLock, cacheSvc, metricsSvc, validate, logr, service.AllocationServiceConfig{
		Seed:     cfg.Allocation.Seed,
		NextWeek: cfg.Allocation.NextWeek(),
		CacheTTL: cfg.Allocation.CacheTTL,
	})
	archiveSvc := service.NewArchiveService(archiveRepo, runLock, cacheSvc, logr)

	runQueue := jobs.NewQueue("allocation-runs", allocationSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Allocation.Workers,
		BufferSize: cfg.Allocation.QueueBuffer,
		MaxRetries: cfg.Allocation.RunRetries,
		RetryDelay: cfg.Allocation.RetryDelay,
		Logger:     logr,
	})
	runQueue.Start(ctx)
	defer runQueue.Stop()
	allocationSvc.AttachQueue(runQueue)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(tracing.GinMiddleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, readiness)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	preferenceHandler := handler.NewPreferenceHandler(preferenceSvc)
	allocationHandler := handler.NewAllocationHandler(allocationSvc)
	archiveHandler := handler.NewArchiveHandler(archiveSvc)

	api := r.Group(cfg.APIPrefix)
	prefs := api.Group("/preferences")
	prefs.POST("/teams", preferenceHandler.SubmitTeam)
	prefs.GET("/teams", preferenceHandler.ListTeams)
	prefs.POST("/oasis", preferenceHandler.SubmitOasis)
	prefs.GET("/oasis", preferenceHandler.ListOasis)

	allocs := api.Group("/allocations")
	allocs.POST("/run", allocationHandler.Run)
	allocs.GET("/runs/:id", allocationHandler.RunStatus)
	allocs.GET("/weekly", allocationHandler.ListWeekly)
	allocs.PATCH("/weekly/:id", allocationHandler.UpdateWeekly)
	allocs.DELETE("/weekly/:id", allocationHandler.DeleteWeekly)
	allocs.GET("/oasis", allocationHandler.ListOasis)
	allocs.POST("/oasis/adhoc", allocationHandler.AddAdhocOasis)
	allocs.GET("/oasis/availability", allocationHandler.Availability)
	allocs.PATCH("/oasis/:id", allocationHandler.UpdateOasis)
	allocs.DELETE("/oasis/:id", allocationHandler.DeleteOasis)
	allocs.GET("/validation", allocationHandler.Validate)
	allocs.GET("/status", archiveHandler.Status)
	if cfg.Archives.Enabled {
		allocs.POST("/reset", archiveHandler.Reset)
		allocs.GET("/archive", archiveHandler.ListArchive)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Error("tracing shutdown failed", zap.Error(err))
	}
}
