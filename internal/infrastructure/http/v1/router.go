// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/category"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/supplier"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/product"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/purchase"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/reports"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1/handlers"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1/middleware"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
	"github.com/sahan201/basic-inventory-management-system/pkg/logger"
)

// RouterConfig holds the services the router exposes.
type RouterConfig struct {
	Logger *logger.Logger
	Pool   *postgres.Pool

	Coordinator     *ledger.Coordinator
	ProductService  *product.Service
	PurchaseService *purchase.Service
	ReportService   *reports.Service
	CategoryService *category.Service
	SupplierService *supplier.Service
	AuditStore      *postgres.AuditStore
}

// NewRouter creates and configures the gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery first, error handler last so it sees
	// everything the handlers push.
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Actor())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		sales := handlers.NewSalesHandler(base, cfg.Coordinator)
		api.POST("/sales", sales.Record)
		api.DELETE("/sales/:id", sales.Reverse)
		api.GET("/movements", sales.List)
		api.GET("/movements/:id", sales.Get)

		orders := handlers.NewPurchaseOrderHandler(base, cfg.PurchaseService)
		api.POST("/purchase-orders", orders.Create)
		api.GET("/purchase-orders", orders.List)
		api.GET("/purchase-orders/:id", orders.Get)
		api.PUT("/purchase-orders/:id", orders.Update)
		api.DELETE("/purchase-orders/:id", orders.Delete)
		api.POST("/purchase-orders/:id/receive", orders.Receive)
		api.POST("/purchase-orders/:id/cancel", orders.Cancel)

		products := handlers.NewProductHandler(base, cfg.ProductService)
		api.POST("/products", products.Create)
		api.GET("/products", products.List)
		api.GET("/products/:id", products.Get)
		api.PUT("/products/:id", products.Update)
		api.DELETE("/products/:id", products.Delete)

		categories := handlers.NewCategoryHandler(base, cfg.CategoryService)
		api.POST("/categories", categories.Create)
		api.GET("/categories", categories.List)
		api.PUT("/categories/:id", categories.Update)
		api.DELETE("/categories/:id", categories.Delete)

		suppliers := handlers.NewSupplierHandler(base, cfg.SupplierService)
		api.POST("/suppliers", suppliers.Create)
		api.GET("/suppliers", suppliers.List)
		api.GET("/suppliers/:id", suppliers.Get)
		api.PUT("/suppliers/:id", suppliers.Update)
		api.DELETE("/suppliers/:id", suppliers.Delete)

		rpt := handlers.NewReportsHandler(base, cfg.ReportService)
		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("/sales-summary", rpt.SalesSummary)
			reportsGroup.GET("/period-sales", rpt.PeriodSales)
			reportsGroup.GET("/top-selling", rpt.TopSelling)
			reportsGroup.GET("/sales-by-category", rpt.SalesByCategory)
			reportsGroup.GET("/low-stock", rpt.LowStock)
			reportsGroup.GET("/valuation", rpt.Valuation)
			reportsGroup.GET("/product-count-by-category", rpt.ProductCountByCategory)
			reportsGroup.GET("/dashboard", rpt.Dashboard)
		}

		if cfg.AuditStore != nil {
			audit := handlers.NewAuditHandler(base, cfg.AuditStore)
			api.GET("/audit/:entityType/:id", audit.ListByEntity)
		}
	}

	return router
}
