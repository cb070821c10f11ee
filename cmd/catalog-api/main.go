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
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/H7KZ/Kreditozrouti-sub000/api/swagger"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/handler"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/middleware"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/repository"
	"github.com/H7KZ/Kreditozrouti-sub000/internal/service"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/cache"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/config"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/database"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/jobs"
	"github.com/H7KZ/Kreditozrouti-sub000/pkg/logger"
	corsmiddleware "github.com/H7KZ/Kreditozrouti-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/H7KZ/Kreditozrouti-sub000/pkg/middleware/requestid"
)

// @title Kreditozrouti Catalog API
// @version 0.1.0
// @description Course catalog, timetable and schedule generation service
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
	sugar := logr.Sugar()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		sugar.Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	translator := service.NewFilterTranslator()
	courseRepo := repository.NewCourseRepository(db, translator)
	planRepo := repository.NewStudyPlanRepository(db)
	selectionRepo := repository.NewSelectionRepository(redisClient, cfg.Timetable.StorageKey)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.FacetCacheTTL, logr, true)
	catalogSvc := service.NewCatalogService(courseRepo, cacheSvc, metricsSvc, cfg.Catalog.FacetCacheTTL, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize, sugar)

	saveQueue := jobs.NewQueue("selection_save", service.SaveJobHandler(selectionRepo, logr), jobs.QueueConfig{
		Workers:    cfg.Timetable.SaveWorkers,
		MaxRetries: cfg.Timetable.SaveRetries,
		RetryDelay: cfg.Timetable.SaveRetryDelay,
		Logger:     logr,
	})
	saveQueue.Start(ctx)
	defer saveQueue.Stop()

	timetableSvc := service.NewTimetableService(selectionRepo, saveQueue, logr)
	if err := timetableSvc.Restore(ctx); err != nil {
		sugar.Warnw("failed to restore timetable selection", "error", err)
	}

	generatorSvc := service.NewScheduleGeneratorService(courseRepo, planRepo, validate, logr, cfg.Scheduler.DefaultMaxEcts)
	analyzerSvc := service.NewScheduleAnalyzerService(logr)

	exportSvc, err := service.NewExportService(cfg.Export, sugar)
	if err != nil {
		sugar.Fatalw("failed to init export service", "error", err)
	}

	catalogHandler := handler.NewCatalogHandler(catalogSvc, validate)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, catalogSvc, exportSvc, validate)
	schedulerHandler := handler.NewSchedulerHandler(generatorSvc, analyzerSvc, metricsSvc, validate)
	planHandler := handler.NewStudyPlanHandler(planRepo)

	scheduler := cron.New()
	if spec := cfg.Catalog.FacetWarmCron; spec != "" {
		if _, err := scheduler.AddFunc(spec, func() {
			warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := catalogSvc.WarmFacets(warmCtx, "", 0); err != nil {
				sugar.Warnw("facet warm failed", "error", err)
			}
		}); err != nil {
			sugar.Fatalw("invalid facet warm cron expression", "cron", spec, "error", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/courses/search", catalogHandler.Search)
		api.GET("/courses/facets", catalogHandler.Facets)
		api.GET("/courses/:id", catalogHandler.Get)

		api.GET("/timetable", timetableHandler.Get)
		api.DELETE("/timetable", timetableHandler.Clear)
		api.POST("/timetable/units", timetableHandler.AddUnit)
		api.PUT("/timetable/units", timetableHandler.ChangeUnit)
		api.DELETE("/timetable/units/:unitId", timetableHandler.RemoveUnit)
		api.DELETE("/timetable/courses/:courseId", timetableHandler.RemoveCourse)
		api.POST("/timetable/drag", timetableHandler.Drag)
		api.GET("/timetable/exclusions", timetableHandler.Exclusions)
		api.GET("/timetable/export.ics", timetableHandler.ExportICS)
		api.GET("/timetable/export.csv", timetableHandler.ExportCSV)
		api.GET("/timetable/export.pdf", timetableHandler.ExportPDF)

		api.POST("/schedules/generate", schedulerHandler.Generate)
		api.POST("/schedules/analyze", schedulerHandler.Analyze)

		api.GET("/study-plans", planHandler.List)
		api.GET("/study-plans/:id", planHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		sugar.Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("server shutdown failed", "error", err)
	}
}
