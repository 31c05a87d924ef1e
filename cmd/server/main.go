// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/category"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/supplier"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/product"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/purchase"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/reports"
	v1 "github.com/sahan201/basic-inventory-management-system/internal/infrastructure/http/v1"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres/product_repo"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres/purchase_repo"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres/report_repo"
	"github.com/sahan201/basic-inventory-management-system/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting inventory server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	productRepo := product_repo.NewRepo(txManager)
	ledgerRepo := ledger_repo.NewRepo(txManager)
	purchaseRepo := purchase_repo.NewRepo(txManager)
	reportRepo := report_repo.NewRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit store", "error", err)
	}
	defer auditStore.Close()

	// --- Services ---
	coordinator := ledger.NewCoordinator(productRepo, ledgerRepo, txManager, auditStore)
	productService := product.NewService(productRepo, txManager, auditStore)
	purchaseService := purchase.NewService(purchaseRepo, coordinator, txManager, auditStore)
	reportService := reports.NewService(reportRepo)
	categoryService := category.NewService(categoryRepo, txManager)
	supplierService := supplier.NewService(supplierRepo, txManager)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:          log,
		Pool:            pool,
		Coordinator:     coordinator,
		ProductService:  productService,
		PurchaseService: purchaseService,
		ReportService:   reportService,
		CategoryService: categoryService,
		SupplierService: supplierService,
		AuditStore:      auditStore,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
