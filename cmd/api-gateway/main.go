package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/som-tools/coursetable-api/api/swagger"
	"github.com/som-tools/coursetable-api/internal/catalog"
	"github.com/som-tools/coursetable-api/internal/handler"
	"github.com/som-tools/coursetable-api/internal/middleware"
	"github.com/som-tools/coursetable-api/internal/repository"
	"github.com/som-tools/coursetable-api/internal/service"
	"github.com/som-tools/coursetable-api/pkg/cache"
	"github.com/som-tools/coursetable-api/pkg/config"
	"github.com/som-tools/coursetable-api/pkg/logger"
	corsmiddleware "github.com/som-tools/coursetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/som-tools/coursetable-api/pkg/middleware/requestid"
	"github.com/som-tools/coursetable-api/pkg/storage"
)

// @title Course Schedule API
// @version 1.0.0
// @description Course catalog browsing and stateless personal-schedule building.
// @BasePath /api/v1
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()

	// Redis is optional: without it every listing refetches the catalog.
	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog caching disabled", "error", err)
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cacheRepo != nil)

	catalogClient := catalog.NewClient(cfg.Catalog, logr)
	courseSvc := service.NewCourseService(catalogClient, cacheSvc, metricsSvc, cfg.Catalog, logr)
	scheduleSvc := service.NewScheduleService(courseSvc, cfg.Schedule, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			log.Fatalf("failed to init export storage: %v", err)
		}
		signer := storage.NewDownloadSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(scheduleSvc, store, signer, metricsSvc, cfg.Exports, logr)
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	courseHandler := handler.NewCourseHandler(courseSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/courses", courseHandler.List)
		api.GET("/courses/facets", courseHandler.Facets)
		api.GET("/courses/:id", courseHandler.Get)

		api.GET("/schedule", scheduleHandler.Get)
		api.GET("/schedule/ics", scheduleHandler.DownloadICS)
		api.GET("/schedule/share", scheduleHandler.Share)

		if exportSvc != nil {
			exportHandler := handler.NewExportHandler(exportSvc)
			api.POST("/exports", exportHandler.Create)
			api.GET("/exports/download", exportHandler.Download)
			api.GET("/exports/:id", exportHandler.Get)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
