package reports

import (
	"context"
)

// Repository defines report data access. Implementations aggregate in
// the database so reports stay consistent with the ledger without
// loading it into memory.
type Repository interface {
	// Sales aggregates
	GetSalesSummary(ctx context.Context, r DateRange) (*SalesSummary, error)
	GetPeriodSales(ctx context.Context, filter PeriodSalesFilter) ([]PeriodSalesItem, error)
	GetTopSelling(ctx context.Context, filter TopSellingFilter) ([]TopSellingItem, error)
	GetSalesByCategory(ctx context.Context, r DateRange) ([]CategorySalesItem, error)

	// Inventory aggregates
	GetLowStock(ctx context.Context, threshold *int64) ([]LowStockItem, error)
	GetValuation(ctx context.Context) (*ValuationReport, error)
	GetProductCountByCategory(ctx context.Context) ([]CategoryCountItem, error)

	// Dashboard counters
	GetDashboard(ctx context.Context) (*Dashboard, error)
}
