package ledger

import (
	"context"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
)

// StockRow is the product counter state read under lock.
type StockRow struct {
	ProductID id.ID       `db:"id"`
	Quantity  int64       `db:"quantity_in_stock"`
	UnitPrice types.Money `db:"price"`
	CostPrice types.Money `db:"cost_price"`
}

// StockStore is the durable product -> quantity-on-hand counter.
// The coordinator is its only writer; report code reads it through
// its own repository and never mutates it.
type StockStore interface {
	// LockQuantity reads the counter row taking an exclusive row lock
	// that is held until the surrounding transaction ends. Two
	// concurrent movements against the same product serialize here.
	// Returns NotFound when the product does not exist.
	LockQuantity(ctx context.Context, productID id.ID) (StockRow, error)

	// AdjustQuantity applies the signed delta to the counter and
	// returns the new quantity. Must be called while holding the lock
	// taken by LockQuantity, inside the same transaction.
	AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (int64, error)
}

// Log is the append-only ledger of stock movements.
type Log interface {
	// Append durably writes one movement entry.
	Append(ctx context.Context, m *Movement) error

	// GetByID retrieves a movement. Returns NotFound when absent.
	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)

	// MarkReversed stamps the original movement with the id of its
	// reversal entry. Returns false if the movement was already
	// reversed, making double reversal structurally impossible even
	// under concurrent attempts.
	MarkReversed(ctx context.Context, originalID, reversalID id.ID) (bool, error)

	// List retrieves movements matching the filter, most recent first.
	List(ctx context.Context, filter Filter) ([]Movement, error)
}
