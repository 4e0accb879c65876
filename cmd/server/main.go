package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/api"
	"github.com/nebulaops/backend/internal/cache"
	"github.com/nebulaops/backend/internal/config"
	"github.com/nebulaops/backend/internal/repository/postgres"
	"github.com/nebulaops/backend/internal/service"
	"github.com/nebulaops/backend/internal/storage"
	"github.com/nebulaops/backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("forecast cache unavailable, continuing without")
		forecastCache = cache.NewNoopForecastCache()
	}
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	var archive storage.ObjectStorage = storage.NewNoopStorage()
	if cfg.Storage.Endpoint != "" {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("backup storage unavailable, backups stay local")
		} else {
			archive = client
		}
	}

	products := postgres.NewProductRepository(db)
	sales := postgres.NewSalesRepository(db)
	ads := postgres.NewAdsRepository(db)
	inventory := postgres.NewInventoryRepository(db)
	settings := postgres.NewSettingsRepository(db, cfg.Policy.Defaults())

	forecasts := service.NewForecastService(products, sales, inventory, settings, forecastCache)
	dashboards := service.NewDashboardService(products, sales, ads, settings, dashboardCache)

	services := &api.Services{
		Forecasts:  forecasts,
		Dashboards: dashboards,
		Catalog:    service.NewCatalogService(products, forecasts, dashboards),
		Ledger:     service.NewLedgerService(sales, ads, forecasts, dashboards),
		Inventory:  service.NewInventoryService(inventory, forecasts, dashboards),
		Settings:   service.NewSettingsService(settings, forecasts, dashboards),
		Backups:    service.NewBackupService(products, sales, ads, inventory, archive, forecasts, dashboards),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Log.Info().Msg("server exiting")
}
