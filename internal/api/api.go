package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nebulaops/backend/internal/api/handlers"
	"github.com/nebulaops/backend/internal/api/middleware"
	"github.com/nebulaops/backend/internal/service"
)

type Services struct {
	Forecasts  *service.ForecastService
	Dashboards *service.DashboardService
	Catalog    *service.CatalogService
	Ledger     *service.LedgerService
	Inventory  *service.InventoryService
	Settings   *service.SettingsService
	Backups    *service.BackupService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalized) > 0 {
			corsConfig.AllowOrigins = normalized
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	forecastHandler := handlers.NewForecastHandler(services.Forecasts)
	forecastGroup := apiGroup.Group("/forecast")
	{
		forecastGroup.GET("", forecastHandler.List)
		forecastGroup.GET("/:sku", forecastHandler.Get)
	}

	dashboardHandler := handlers.NewDashboardHandler(services.Dashboards)
	dashboardGroup := apiGroup.Group("/dashboard")
	{
		dashboardGroup.GET("", dashboardHandler.Overview)
		dashboardGroup.GET("/trend", dashboardHandler.Trend)
		dashboardGroup.GET("/parents/:sku", dashboardHandler.ParentDetail)
	}

	catalogHandler := handlers.NewCatalogHandler(services.Catalog)
	productGroup := apiGroup.Group("/products")
	{
		productGroup.GET("", catalogHandler.List)
		productGroup.GET("/:sku", catalogHandler.Get)
		productGroup.PUT("/:sku", catalogHandler.Save)
		productGroup.DELETE("/:sku", catalogHandler.Delete)
	}

	ledgerHandler := handlers.NewLedgerHandler(services.Ledger)
	salesGroup := apiGroup.Group("/sales")
	{
		salesGroup.GET("", ledgerHandler.ListSales)
		salesGroup.POST("", ledgerHandler.AddSales)
		salesGroup.PUT("/:id", ledgerHandler.UpdateSale)
		salesGroup.DELETE("/:id", ledgerHandler.DeleteSale)
	}
	adsGroup := apiGroup.Group("/ads")
	{
		adsGroup.GET("", ledgerHandler.ListAds)
		adsGroup.POST("", ledgerHandler.AddAds)
		adsGroup.PUT("/:id", ledgerHandler.UpdateAd)
		adsGroup.DELETE("/:id", ledgerHandler.DeleteAd)
	}

	inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
	inventoryGroup := apiGroup.Group("/inventory")
	{
		inventoryGroup.GET("", inventoryHandler.List)
		inventoryGroup.GET("/:sku", inventoryHandler.Get)
		inventoryGroup.PATCH("/:sku", inventoryHandler.Patch)
	}

	settingsHandler := handlers.NewSettingsHandler(services.Settings)
	settingsGroup := apiGroup.Group("/settings")
	{
		settingsGroup.GET("", settingsHandler.Get)
		settingsGroup.PUT("", settingsHandler.Save)
	}

	importHandler := handlers.NewImportHandler(services.Catalog, services.Ledger, services.Inventory)
	apiGroup.POST("/import/:dataset", importHandler.Import)

	backupHandler := handlers.NewBackupHandler(services.Backups)
	backupGroup := apiGroup.Group("/backup")
	{
		backupGroup.GET("/export", backupHandler.Export)
		backupGroup.POST("/restore", backupHandler.Restore)
		backupGroup.GET("/archives", backupHandler.Archives)
		backupGroup.GET("/archives/:name", backupHandler.FetchArchive)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
