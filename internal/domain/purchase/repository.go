package purchase

import (
	"context"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
)

// Repository defines purchase order persistence.
type Repository interface {
	// Create inserts a new order.
	Create(ctx context.Context, order *PurchaseOrder) error

	// GetByID retrieves an order with supplier/product names.
	// Returns NotFound when absent.
	GetByID(ctx context.Context, orderID id.ID) (*PurchaseOrder, error)

	// GetForUpdate retrieves an order taking a row lock, so a status
	// transition cannot race a concurrent transition on the same
	// order. Must be called inside a transaction.
	GetForUpdate(ctx context.Context, orderID id.ID) (*PurchaseOrder, error)

	// Update persists quantity/cost/delivery edits of a pending order.
	Update(ctx context.Context, order *PurchaseOrder) error

	// UpdateStatus transitions the order. receivedAt is non-nil only
	// for the transition to RECEIVED.
	UpdateStatus(ctx context.Context, orderID id.ID, status Status, receivedAt *time.Time) error

	// Delete removes an order permanently.
	Delete(ctx context.Context, orderID id.ID) error

	// List retrieves orders matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]PurchaseOrder, error)
}
