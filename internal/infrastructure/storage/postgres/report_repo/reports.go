// Package report_repo provides PostgreSQL report aggregation.
// Reports aggregate the movement ledger in SQL so they stay
// consistent with concurrent writes without loading rows into memory.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/reports"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*Repo)(nil)

// Repo implements reports.Repository.
type Repo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRepo creates a report repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// saleKinds restricts aggregates to the sale side of the ledger.
// Reversal rows carry negated totals and positive deltas, so plain
// sums over both kinds are already net of reversals.
var saleKinds = []string{"SALE", "SALE_REVERSAL"}

func applyRange(q squirrel.SelectBuilder, column string, r reports.DateRange) squirrel.SelectBuilder {
	if !r.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{column: r.From})
	}
	if !r.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{column: r.To})
	}
	return q
}

func (r *Repo) GetSalesSummary(ctx context.Context, rng reports.DateRange) (*reports.SalesSummary, error) {
	q := r.builder.Select(
		"COALESCE(SUM(m.total_amount), 0) AS total_revenue",
		"COALESCE(SUM(-m.delta * (m.unit_price - COALESCE(p.cost_price, 0))), 0) AS total_profit",
		"COALESCE(SUM(-m.delta), 0) AS units_sold",
		"COUNT(*) FILTER (WHERE m.kind = 'SALE') AS sale_count",
	).
		From("stock_movements m").
		Join("products p ON p.id = m.product_id").
		Where(squirrel.Eq{"m.kind": saleKinds})
	q = applyRange(q, "m.created_at", rng)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}

	var row struct {
		TotalRevenue types.Money `db:"total_revenue"`
		TotalProfit  types.Money `db:"total_profit"`
		UnitsSold    int64       `db:"units_sold"`
		SaleCount    int64       `db:"sale_count"`
	}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return &reports.SalesSummary{
		TotalRevenue: row.TotalRevenue,
		TotalProfit:  row.TotalProfit,
		UnitsSold:    row.UnitsSold,
		SaleCount:    row.SaleCount,
	}, nil
}

func (r *Repo) GetPeriodSales(ctx context.Context, filter reports.PeriodSalesFilter) ([]reports.PeriodSalesItem, error) {
	format := "YYYY-MM-DD"
	if filter.Granularity == reports.GranularityMonthly {
		format = "YYYY-MM"
	}
	bucket := fmt.Sprintf("to_char(m.created_at, '%s')", format)

	q := r.builder.Select(
		bucket+" AS period",
		"COALESCE(SUM(m.total_amount), 0) AS revenue",
		"COALESCE(SUM(-m.delta), 0) AS units_sold",
		"COUNT(*) FILTER (WHERE m.kind = 'SALE') AS sale_count",
	).
		From("stock_movements m").
		Where(squirrel.Eq{"m.kind": saleKinds}).
		GroupBy(bucket).
		OrderBy("period DESC").
		Limit(uint64(filter.Limit))
	q = applyRange(q, "m.created_at", filter.Range)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build period sales: %w", err)
	}

	var items []reports.PeriodSalesItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("period sales: %w", err)
	}
	return items, nil
}

func (r *Repo) GetTopSelling(ctx context.Context, filter reports.TopSellingFilter) ([]reports.TopSellingItem, error) {
	q := r.builder.Select(
		"m.product_id",
		"COALESCE(p.name, '') AS product_name",
		"COALESCE(SUM(-m.delta), 0) AS units_sold",
		"COALESCE(SUM(m.total_amount), 0) AS revenue",
	).
		From("stock_movements m").
		LeftJoin("products p ON p.id = m.product_id").
		Where(squirrel.Eq{"m.kind": saleKinds}).
		GroupBy("m.product_id", "p.name").
		Having("SUM(-m.delta) > 0").
		OrderBy("units_sold DESC", "m.product_id ASC").
		Limit(uint64(filter.Limit))
	q = applyRange(q, "m.created_at", filter.Range)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top selling: %w", err)
	}

	var items []reports.TopSellingItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	return items, nil
}

func (r *Repo) GetSalesByCategory(ctx context.Context, rng reports.DateRange) ([]reports.CategorySalesItem, error) {
	q := r.builder.Select(
		"c.id AS category_id",
		"COALESCE(c.name, 'Uncategorized') AS category_name",
		"COALESCE(SUM(m.total_amount), 0) AS revenue",
		"COALESCE(SUM(-m.delta), 0) AS units_sold",
	).
		From("stock_movements m").
		Join("products p ON p.id = m.product_id").
		LeftJoin("categories c ON c.id = p.category_id").
		Where(squirrel.Eq{"m.kind": saleKinds}).
		GroupBy("c.id", "c.name").
		OrderBy("revenue DESC")
	q = applyRange(q, "m.created_at", rng)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales by category: %w", err)
	}

	var items []reports.CategorySalesItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	return items, nil
}

// GetLowStock orders by quantity with product id as tiebreaker so the
// listing is deterministic across equal quantities.
func (r *Repo) GetLowStock(ctx context.Context, threshold *int64) ([]reports.LowStockItem, error) {
	const base = `
		SELECT p.id AS product_id,
		       p.name AS product_name,
		       COALESCE(c.name, '') AS category_name,
		       p.quantity_in_stock AS quantity,
		       p.reorder_level
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE %s
		ORDER BY p.quantity_in_stock ASC, p.id ASC
	`

	var (
		sql  string
		args []any
	)
	if threshold != nil {
		sql = fmt.Sprintf(base, "p.quantity_in_stock < $1")
		args = append(args, *threshold)
	} else {
		sql = fmt.Sprintf(base, "p.quantity_in_stock <= p.reorder_level")
	}

	var items []reports.LowStockItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return items, nil
}

func (r *Repo) GetValuation(ctx context.Context) (*reports.ValuationReport, error) {
	const sql = `
		SELECT p.id AS product_id,
		       p.name AS product_name,
		       p.quantity_in_stock AS quantity,
		       COALESCE(p.cost_price, 0) AS cost_price,
		       p.price AS retail_price,
		       p.quantity_in_stock * COALESCE(p.cost_price, 0) AS cost_value,
		       p.quantity_in_stock * p.price AS retail_value
		FROM products p
		ORDER BY cost_value DESC
	`
	var items []reports.ValuationItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql); err != nil {
		return nil, fmt.Errorf("valuation: %w", err)
	}

	report := &reports.ValuationReport{
		Items:            items,
		TotalCostValue:   types.ZeroMoney(),
		TotalRetailValue: types.ZeroMoney(),
	}
	for _, item := range items {
		report.TotalCostValue = report.TotalCostValue.Add(item.CostValue)
		report.TotalRetailValue = report.TotalRetailValue.Add(item.RetailValue)
		report.TotalUnits += item.Quantity
	}
	return report, nil
}

func (r *Repo) GetProductCountByCategory(ctx context.Context) ([]reports.CategoryCountItem, error) {
	const sql = `
		SELECT c.id AS category_id,
		       COALESCE(c.name, 'Uncategorized') AS category_name,
		       COUNT(p.id) AS product_count
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		GROUP BY c.id, c.name
		ORDER BY product_count DESC
	`
	var items []reports.CategoryCountItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql); err != nil {
		return nil, fmt.Errorf("product count by category: %w", err)
	}
	return items, nil
}

func (r *Repo) GetDashboard(ctx context.Context) (*reports.Dashboard, error) {
	const sql = `
		SELECT
			(SELECT COUNT(*) FROM products) AS product_count,
			(SELECT COUNT(*) FROM categories) AS category_count,
			(SELECT COUNT(*) FROM suppliers) AS supplier_count,
			(SELECT COUNT(*) FROM products WHERE quantity_in_stock <= reorder_level) AS low_stock_count,
			(SELECT COUNT(*) FROM purchase_orders WHERE status = 'PENDING') AS pending_order_count,
			(SELECT COALESCE(SUM(quantity_in_stock), 0) FROM products) AS total_stock_units,
			(SELECT COALESCE(SUM(quantity_in_stock * COALESCE(cost_price, 0)), 0) FROM products) AS inventory_cost_value,
			(SELECT COALESCE(SUM(total_amount), 0) FROM stock_movements
			 WHERE kind IN ('SALE', 'SALE_REVERSAL') AND created_at >= date_trunc('day', now())) AS revenue_today,
			(SELECT COALESCE(SUM(total_amount), 0) FROM stock_movements
			 WHERE kind IN ('SALE', 'SALE_REVERSAL') AND created_at >= date_trunc('month', now())) AS revenue_this_month
	`
	var row struct {
		ProductCount       int64       `db:"product_count"`
		CategoryCount      int64       `db:"category_count"`
		SupplierCount      int64       `db:"supplier_count"`
		LowStockCount      int64       `db:"low_stock_count"`
		PendingOrderCount  int64       `db:"pending_order_count"`
		TotalStockUnits    int64       `db:"total_stock_units"`
		InventoryCostValue types.Money `db:"inventory_cost_value"`
		RevenueToday       types.Money `db:"revenue_today"`
		RevenueThisMonth   types.Money `db:"revenue_this_month"`
	}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &reports.Dashboard{
		ProductCount:       row.ProductCount,
		CategoryCount:      row.CategoryCount,
		SupplierCount:      row.SupplierCount,
		LowStockCount:      row.LowStockCount,
		PendingOrderCount:  row.PendingOrderCount,
		TotalStockUnits:    row.TotalStockUnits,
		InventoryCostValue: row.InventoryCostValue,
		RevenueToday:       row.RevenueToday,
		RevenueThisMonth:   row.RevenueThisMonth,
	}, nil
}
