// Package product provides the product catalog. Stock quantity is
// owned by the movement ledger; this package only reads it.
package product

import (
	"context"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
)

// Product is one catalog item. QuantityInStock is maintained
// exclusively by applying ledger movements; catalog updates never
// write it.
type Product struct {
	ID          id.ID  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	SKU         string `db:"sku" json:"sku,omitempty"`
	Description string `db:"description" json:"description,omitempty"`

	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// Price is the retail unit price; CostPrice values stock and
	// profit calculations. CostPrice nil means unknown.
	Price     types.Money  `db:"price" json:"price"`
	CostPrice *types.Money `db:"cost_price" json:"costPrice,omitempty"`

	QuantityInStock int64 `db:"quantity_in_stock" json:"quantityInStock"`
	ReorderLevel    int64 `db:"reorder_level" json:"reorderLevel"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Joined names, populated by listing queries only.
	CategoryName string `db:"category_name" json:"categoryName,omitempty"`
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`
}

// LowStock reports whether the product is at or below its reorder
// level.
func (p *Product) LowStock() bool {
	return p.QuantityInStock <= p.ReorderLevel
}

// Validate checks catalog invariants.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}
	if p.CostPrice != nil && p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").
			WithDetail("field", "costPrice")
	}
	if p.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}
	return nil
}

// ListFilter narrows product listings.
type ListFilter struct {
	// Search matches name and SKU, case-insensitive substring.
	Search     string
	CategoryID *id.ID
	SupplierID *id.ID
	// LowStockOnly keeps products at or below reorder level.
	LowStockOnly bool
	Limit        int
	Offset       int
}
