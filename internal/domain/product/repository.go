package product

import (
	"context"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
)

// Repository defines product catalog persistence.
type Repository interface {
	// Create inserts a product with its initial stock quantity.
	Create(ctx context.Context, p *Product) error

	// GetByID retrieves a product with joined category and supplier
	// names. Returns NotFound when absent.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// FindBySKU retrieves a product by SKU. Returns NotFound when
	// absent.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// Update persists catalog fields. QuantityInStock is never
	// written by this method.
	Update(ctx context.Context, p *Product) error

	// Delete removes a product permanently.
	Delete(ctx context.Context, productID id.ID) error

	// HasMovements reports whether any ledger entry or purchase
	// order references the product.
	HasMovements(ctx context.Context, productID id.ID) (bool, error)

	// List retrieves products matching the filter, by name.
	List(ctx context.Context, filter ListFilter) ([]Product, error)
}
