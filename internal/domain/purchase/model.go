// Package purchase provides replenishment purchase orders and their
// PENDING -> RECEIVED | CANCELLED state machine.
package purchase

import (
	"context"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
)

// Status is the purchase order state. Transitions are monotonic:
// RECEIVED and CANCELLED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReceived  Status = "RECEIVED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder is a replenishment order for a single product.
// Once received it becomes an immutable historical record.
type PurchaseOrder struct {
	ID         id.ID `db:"id" json:"id"`
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`
	ProductID  id.ID `db:"product_id" json:"productId"`

	Quantity int64       `db:"quantity" json:"quantity"`
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// TotalCost = quantity x unit cost, recomputed whenever either
	// changes.
	TotalCost types.Money `db:"total_cost" json:"totalCost"`

	Status    Status     `db:"status" json:"status"`
	OrderDate time.Time  `db:"order_date" json:"orderDate"`
	Expected  *time.Time `db:"expected_delivery" json:"expectedDelivery,omitempty"`

	// ReceivedAt is set only on the transition to RECEIVED.
	ReceivedAt *time.Time `db:"received_at" json:"receivedAt,omitempty"`

	ActorID string `db:"actor_id" json:"actorId,omitempty"`
	Notes   string `db:"notes" json:"notes,omitempty"`

	// Joined names, populated by listing queries only.
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`
	ProductName  string `db:"product_name" json:"productName,omitempty"`
}

// RecalculateTotal recomputes TotalCost from quantity and unit cost.
func (o *PurchaseOrder) RecalculateTotal() {
	o.TotalCost = types.MoneyFromUnits(o.UnitCost, o.Quantity)
}

// Validate checks order invariants.
func (o *PurchaseOrder) Validate(ctx context.Context) error {
	if id.IsNil(o.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if id.IsNil(o.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if o.Quantity <= 0 {
		return apperror.NewValidation("quantity must be a positive integer").
			WithDetail("field", "quantity")
	}
	if o.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}
	return nil
}

// ListFilter narrows purchase order listings.
type ListFilter struct {
	Status     *Status
	SupplierID *id.ID
	ProductID  *id.ID
	Limit      int
	Offset     int
}
