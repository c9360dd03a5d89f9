package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	reportapp "github.com/erp/reporting/internal/application/report"
	"github.com/erp/reporting/internal/infrastructure/cache"
	"github.com/erp/reporting/internal/infrastructure/config"
	"github.com/erp/reporting/internal/infrastructure/logger"
	"github.com/erp/reporting/internal/infrastructure/storage"
	"github.com/erp/reporting/internal/infrastructure/telemetry"
	"github.com/erp/reporting/internal/interfaces/http/handler"
	"github.com/erp/reporting/internal/interfaces/http/middleware"
	"github.com/erp/reporting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.FromAppConfig(cfg.App, cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = baseLog.Sync() }()

	if err := run(cfg, baseLog); err != nil {
		baseLog.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, baseLog *zap.Logger) error {
	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Name, baseLog)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			baseLog.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	log := providers.Logger(baseLog)

	log.Info("Starting reporting service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	reportMetrics, err := telemetry.NewReportMetrics(providers.Meter.Meter("reporting"))
	if err != nil {
		return fmt.Errorf("report metrics: %w", err)
	}

	opts := []reportapp.Option{
		reportapp.WithLocation(cfg.App.Location()),
		reportapp.WithMetrics(reportMetrics),
	}

	store, err := cache.NewExportCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		return fmt.Errorf("export cache: %w", err)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing export cache", zap.Error(err))
			}
		}()
		opts = append(opts, reportapp.WithExportCache(store, cfg.Cache.TTL))
	}

	storageEmitter, err := newStorageEmitter(cfg, log)
	if err != nil {
		return fmt.Errorf("export storage: %w", err)
	}

	reportService := reportapp.NewReportService(log, opts...)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order: request id, recovery, tracing, logging, metrics, headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     providers.Tracer.IsEnabled(),
	})...)
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(providers.Meter, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion)).
		Register(handler.NewReportHandler(reportService, storageEmitter)).
		Setup()

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	srv := &http.Server{
		Addr:           cfg.App.Addr(),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited gracefully")
	return nil
}

// newStorageEmitter returns the emitter behind ?target=storage, or nil when
// exports are download-only.
func newStorageEmitter(cfg *config.Config, log *zap.Logger) (reportapp.Emitter, error) {
	switch cfg.Export.Target {
	case config.ExportTargetLocal:
		e, err := storage.NewLocalEmitter(cfg.Export.Directory, log)
		if err != nil {
			return nil, err
		}
		log.Info("Exports stored on disk", zap.String("dir", e.Dir()))
		return e, nil
	case config.ExportTargetS3:
		e, err := storage.NewS3Emitter(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		log.Info("Exports stored in object storage", zap.String("bucket", e.GetBucket()))
		return e, nil
	default:
		return nil, nil
	}
}
