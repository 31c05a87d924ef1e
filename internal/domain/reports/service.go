package reports

import (
	"context"
	"fmt"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateRange(r DateRange) error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return apperror.NewValidation("from date must not be after to date")
	}
	return nil
}

// GetSalesSummary returns net revenue, profit and unit counts for the
// period. An empty range covers the whole ledger.
func (s *Service) GetSalesSummary(ctx context.Context, r DateRange) (*SalesSummary, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}

	summary, err := s.repo.GetSalesSummary(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("get sales summary: %w", err)
	}
	summary.From = r.From
	summary.To = r.To
	return summary, nil
}

// GetPeriodSales returns daily or monthly net sales buckets.
func (s *Service) GetPeriodSales(ctx context.Context, filter PeriodSalesFilter) ([]PeriodSalesItem, error) {
	if !filter.Granularity.Valid() {
		return nil, apperror.NewValidation("granularity must be daily or monthly").
			WithDetail("granularity", string(filter.Granularity))
	}
	if err := validateRange(filter.Range); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = 90
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	items, err := s.repo.GetPeriodSales(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get period sales: %w", err)
	}
	return items, nil
}

// GetTopSelling ranks products by units sold net of reversals.
func (s *Service) GetTopSelling(ctx context.Context, filter TopSellingFilter) ([]TopSellingItem, error) {
	if err := validateRange(filter.Range); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	items, err := s.repo.GetTopSelling(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get top selling: %w", err)
	}
	return items, nil
}

// GetSalesByCategory returns each category's share of net sales.
// Products without a category fall into an "Uncategorized" row.
func (s *Service) GetSalesByCategory(ctx context.Context, r DateRange) ([]CategorySalesItem, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}

	items, err := s.repo.GetSalesByCategory(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("get sales by category: %w", err)
	}
	return items, nil
}

// GetLowStock lists low-stock products, ordered by quantity ascending.
// With an explicit threshold it selects quantity strictly below it;
// without one each product is checked against its own reorder level.
func (s *Service) GetLowStock(ctx context.Context, threshold *int64) ([]LowStockItem, error) {
	if threshold != nil && *threshold < 0 {
		return nil, apperror.NewValidation("threshold must not be negative")
	}
	items, err := s.repo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("get low stock: %w", err)
	}
	return items, nil
}

// GetValuation values the whole inventory at cost and at retail.
func (s *Service) GetValuation(ctx context.Context) (*ValuationReport, error) {
	report, err := s.repo.GetValuation(ctx)
	if err != nil {
		return nil, fmt.Errorf("get valuation: %w", err)
	}
	return report, nil
}

// GetProductCountByCategory counts products per category.
func (s *Service) GetProductCountByCategory(ctx context.Context) ([]CategoryCountItem, error) {
	items, err := s.repo.GetProductCountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("get product count by category: %w", err)
	}
	return items, nil
}

// GetDashboard returns the landing view counters.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	dash, err := s.repo.GetDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return dash, nil
}
