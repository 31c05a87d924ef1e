// Package reports provides sales and inventory report generation.
package reports

import (
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
)

// --- Sales Summary ---

// DateRange bounds a report period. Zero values mean unbounded on
// that side.
type DateRange struct {
	From time.Time
	To   time.Time
}

// SalesSummary aggregates the sale ledger. Revenue and profit are net
// of reversals: every reversal entry carries the negated amount of
// its original, so plain sums over the ledger are already net.
type SalesSummary struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`

	// TotalRevenue = SUM(total_amount) over sales and reversals.
	TotalRevenue types.Money `json:"totalRevenue"`

	// TotalProfit = SUM(quantity x (unit_price - cost_price)),
	// valued at the product's current cost price. Products without
	// a cost price contribute at full revenue.
	TotalProfit types.Money `json:"totalProfit"`

	// UnitsSold is net of reversals.
	UnitsSold int64 `json:"unitsSold"`

	// SaleCount counts sale entries only, not reversal entries.
	SaleCount int64 `json:"saleCount"`
}

// --- Period Sales ---

// PeriodGranularity selects the bucketing of period sales.
type PeriodGranularity string

const (
	GranularityDaily   PeriodGranularity = "daily"
	GranularityMonthly PeriodGranularity = "monthly"
)

// Valid reports whether g is a known granularity.
func (g PeriodGranularity) Valid() bool {
	return g == GranularityDaily || g == GranularityMonthly
}

// PeriodSalesFilter selects the period sales buckets.
type PeriodSalesFilter struct {
	Granularity PeriodGranularity
	Range       DateRange
	Limit       int
}

// PeriodSalesItem is one time bucket of net sales.
type PeriodSalesItem struct {
	// Period is "2006-01-02" for daily buckets and "2006-01" for
	// monthly buckets.
	Period    string      `db:"period" json:"period"`
	Revenue   types.Money `db:"revenue" json:"revenue"`
	UnitsSold int64       `db:"units_sold" json:"unitsSold"`
	SaleCount int64       `db:"sale_count" json:"saleCount"`
}

// --- Top Selling ---

// TopSellingFilter selects the best-selling products report.
type TopSellingFilter struct {
	Range DateRange
	Limit int
}

// TopSellingItem is one product ranked by units sold net of
// reversals.
type TopSellingItem struct {
	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductName string      `db:"product_name" json:"productName"`
	UnitsSold   int64       `db:"units_sold" json:"unitsSold"`
	Revenue     types.Money `db:"revenue" json:"revenue"`
}

// --- Low Stock ---

// LowStockItem is a product at or below its reorder threshold.
type LowStockItem struct {
	ProductID    id.ID  `db:"product_id" json:"productId"`
	ProductName  string `db:"product_name" json:"productName"`
	CategoryName string `db:"category_name" json:"categoryName,omitempty"`
	Quantity     int64  `db:"quantity" json:"quantity"`
	ReorderLevel int64  `db:"reorder_level" json:"reorderLevel"`
}

// --- Inventory Valuation ---

// ValuationItem values one product's stock on hand.
type ValuationItem struct {
	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductName string      `db:"product_name" json:"productName"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	CostPrice   types.Money `db:"cost_price" json:"costPrice"`
	RetailPrice types.Money `db:"retail_price" json:"retailPrice"`
	// CostValue = quantity x cost price; RetailValue = quantity x
	// retail price.
	CostValue   types.Money `db:"cost_value" json:"costValue"`
	RetailValue types.Money `db:"retail_value" json:"retailValue"`
}

// ValuationReport values the whole inventory at cost and at retail.
type ValuationReport struct {
	Items            []ValuationItem `json:"items"`
	TotalCostValue   types.Money     `json:"totalCostValue"`
	TotalRetailValue types.Money     `json:"totalRetailValue"`
	TotalUnits       int64           `json:"totalUnits"`
}

// --- Sales By Category ---

// CategorySalesItem is one category's share of net sales.
type CategorySalesItem struct {
	CategoryID   *id.ID      `db:"category_id" json:"categoryId,omitempty"`
	CategoryName string      `db:"category_name" json:"categoryName"`
	Revenue      types.Money `db:"revenue" json:"revenue"`
	UnitsSold    int64       `db:"units_sold" json:"unitsSold"`
}

// CategoryCountItem is the number of products in one category.
type CategoryCountItem struct {
	CategoryID   *id.ID `db:"category_id" json:"categoryId,omitempty"`
	CategoryName string `db:"category_name" json:"categoryName"`
	ProductCount int64  `db:"product_count" json:"productCount"`
}

// --- Dashboard ---

// Dashboard is the one-call summary for the landing view.
type Dashboard struct {
	ProductCount       int64       `json:"productCount"`
	CategoryCount      int64       `json:"categoryCount"`
	SupplierCount      int64       `json:"supplierCount"`
	LowStockCount      int64       `json:"lowStockCount"`
	PendingOrderCount  int64       `json:"pendingOrderCount"`
	TotalStockUnits    int64       `json:"totalStockUnits"`
	InventoryCostValue types.Money `json:"inventoryCostValue"`
	RevenueToday       types.Money `json:"revenueToday"`
	RevenueThisMonth   types.Money `json:"revenueThisMonth"`
}
