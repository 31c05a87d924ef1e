// Package dto defines the request and response shapes of the v1 API.
package dto

import (
	"time"
)

// --- Common ---

// IDResponse returns the id of a created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// ListResponse wraps list payloads.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse builds a ListResponse from a slice.
func NewListResponse[T any](items []T) ListResponse[T] {
	return ListResponse[T]{Items: items, Total: len(items)}
}

// --- Sales ---

// RecordSaleRequest records a sale movement.
type RecordSaleRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	// UnitPrice overrides the product's current price when set.
	UnitPrice *string `json:"unitPrice,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// --- Products ---

// CreateProductRequest creates a catalog item.
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	SKU          string  `json:"sku,omitempty"`
	Description  string  `json:"description,omitempty"`
	CategoryID   *string `json:"categoryId,omitempty"`
	SupplierID   *string `json:"supplierId,omitempty"`
	Price        string  `json:"price" binding:"required"`
	CostPrice    *string `json:"costPrice,omitempty"`
	InitialStock int64   `json:"initialStock,omitempty"`
	ReorderLevel int64   `json:"reorderLevel,omitempty"`
}

// UpdateProductRequest edits catalog fields. Absent fields stay
// unchanged; quantity in stock is not editable here at all.
type UpdateProductRequest struct {
	Name         *string `json:"name,omitempty"`
	SKU          *string `json:"sku,omitempty"`
	Description  *string `json:"description,omitempty"`
	CategoryID   *string `json:"categoryId,omitempty"`
	SupplierID   *string `json:"supplierId,omitempty"`
	Price        *string `json:"price,omitempty"`
	CostPrice    *string `json:"costPrice,omitempty"`
	ReorderLevel *int64  `json:"reorderLevel,omitempty"`
}

// --- Purchase Orders ---

// CreatePurchaseOrderRequest creates a PENDING order.
type CreatePurchaseOrderRequest struct {
	SupplierID       string     `json:"supplierId" binding:"required"`
	ProductID        string     `json:"productId" binding:"required"`
	Quantity         int64      `json:"quantity" binding:"required"`
	UnitCost         string     `json:"unitCost" binding:"required"`
	ExpectedDelivery *time.Time `json:"expectedDelivery,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// UpdatePurchaseOrderRequest edits a PENDING order.
type UpdatePurchaseOrderRequest struct {
	Quantity         *int64     `json:"quantity,omitempty"`
	UnitCost         *string    `json:"unitCost,omitempty"`
	ExpectedDelivery *time.Time `json:"expectedDelivery,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

// --- Catalogs ---

// CategoryRequest creates or renames a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// SupplierRequest creates or edits a supplier.
type SupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
}
