package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/adopshq/mkt-report-api/api/swagger"
	"github.com/adopshq/mkt-report-api/internal/feed"
	"github.com/adopshq/mkt-report-api/internal/handler"
	"github.com/adopshq/mkt-report-api/internal/middleware"
	"github.com/adopshq/mkt-report-api/internal/models"
	"github.com/adopshq/mkt-report-api/internal/repository"
	"github.com/adopshq/mkt-report-api/internal/service"
	"github.com/adopshq/mkt-report-api/internal/sheets"
	"github.com/adopshq/mkt-report-api/pkg/cache"
	"github.com/adopshq/mkt-report-api/pkg/config"
	"github.com/adopshq/mkt-report-api/pkg/database"
	"github.com/adopshq/mkt-report-api/pkg/logger"
	corsmiddleware "github.com/adopshq/mkt-report-api/pkg/middleware/cors"
	reqidmiddleware "github.com/adopshq/mkt-report-api/pkg/middleware/requestid"
)

// @title Marketing Report API
// @version 1.0.0
// @description Daily ad-performance reporting, aggregation dashboards and sheet mirroring
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr,
		cfg.Dashboard.CacheEnabled && redisClient != nil)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "mkt-report-api",
	})

	userService := service.NewUserService(service.UserServiceParams{
		Repo:            userRepo,
		Roster:          rosterRepo,
		Validator:       validate,
		Logger:          logr,
		DefaultPassword: cfg.Provision.DefaultPassword,
	})

	rosterService := service.NewRosterService(rosterRepo, userRepo, validate, logr)

	var sheetWriter service.SheetWriter
	if cfg.Sheets.Enabled {
		client, err := sheets.NewClient(context.Background(), cfg.Sheets)
		if err != nil {
			logr.Sugar().Fatalw("failed to init sheets client", "error", err)
		}
		sheetWriter = client
	}

	syncService := service.NewSyncService(service.SyncServiceParams{
		Repo:       reportRepo,
		Sheets:     sheetWriter,
		Metrics:    metricsService,
		Logger:     logr,
		Workers:    cfg.Sync.Workers,
		BufferSize: cfg.Sync.BufferSize,
		MaxRetries: cfg.Sync.MaxRetries,
		RetryDelay: cfg.Sync.RetryDelay,
	})

	reportService := service.NewReportService(service.ReportServiceParams{
		Repo:      reportRepo,
		Sync:      syncService,
		Cache:     cacheService,
		Validator: validate,
		Logger:    logr,
	})

	feedClient := feed.NewClient(cfg.Feed, logr)
	dashboardService := service.NewDashboardService(service.DashboardServiceParams{
		Feed:     feedClient,
		Orders:   feedClient,
		Reports:  reportRepo,
		Cache:    cacheService,
		Logger:   logr,
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	exportService := service.NewExportService(dashboardService, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	reportHandler := handler.NewReportHandler(reportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	rosterHandler := handler.NewRosterHandler(rosterService)
	exportHandler := handler.NewExportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/register", userHandler.Register)
			auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
			auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
		}

		protected := api.Group("", middleware.JWT(authService))
		{
			protected.GET("/users/me", userHandler.Me)

			reports := protected.Group("/reports")
			{
				reports.POST("", reportHandler.Submit)
				reports.GET("", reportHandler.List)
				reports.GET("/:id", reportHandler.Get)
				reports.PUT("/:id", reportHandler.Update)
				reports.DELETE("/:id", reportHandler.Delete)

				admin := reports.Group("", middleware.RequireRoles(models.RoleAdmin))
				{
					admin.PATCH("/:id/status", reportHandler.OverrideStatus)
					admin.POST("/:id/resync", reportHandler.Resync)
				}
			}

			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/overview", dashboardHandler.Overview)
				dashboard.GET("/markets", dashboardHandler.Markets)
				dashboard.GET("/records", dashboardHandler.Records)
				dashboard.GET("/orders", middleware.RequireRoles(models.RoleAdmin, models.RoleLeader), dashboardHandler.Orders)
				dashboard.GET("/options", dashboardHandler.Options)
			}

			protected.GET("/export/summary", exportHandler.Summary)

			roster := protected.Group("/roster")
			{
				roster.GET("", rosterHandler.List)
				roster.GET("/options", rosterHandler.Options)

				manage := roster.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleManager))
				{
					manage.POST("", rosterHandler.Create)
					manage.PUT("/:id", rosterHandler.Update)
					manage.DELETE("/:id", rosterHandler.Delete)
				}
			}

			users := protected.Group("/users", middleware.RequireRoles(models.RoleAdmin))
			{
				users.GET("", userHandler.List)
				users.GET("/:id", userHandler.Get)
				users.PUT("/:id", userHandler.Update)
				users.POST("/provision", userHandler.Provision)
			}

			protected.GET("/metrics/summary", middleware.RequireRoles(models.RoleAdmin), metricsHandler.Summary)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncService.Start(ctx)
	defer syncService.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "sheets_sync", cfg.Sheets.Enabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
