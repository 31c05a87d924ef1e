// Package ledger provides the transactional stock ledger: the
// append-only movement log and the coordinator that is the sole
// writer of quantity-on-hand.
package ledger

import (
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
)

// MovementKind classifies a stock movement.
type MovementKind string

const (
	// KindSale decrements stock.
	KindSale MovementKind = "SALE"
	// KindSaleReversal restores the stock of a prior sale.
	KindSaleReversal MovementKind = "SALE_REVERSAL"
	// KindPurchaseReceipt increments stock from a received order.
	KindPurchaseReceipt MovementKind = "PURCHASE_RECEIPT"
)

// Valid reports whether k is a known movement kind.
func (k MovementKind) Valid() bool {
	switch k {
	case KindSale, KindSaleReversal, KindPurchaseReceipt:
		return true
	}
	return false
}

// Decrements reports whether the kind reduces quantity-on-hand.
// Only sales decrement; everything else increments.
func (k MovementKind) Decrements() bool {
	return k == KindSale
}

// Delta returns the signed quantity change for this kind.
func (k MovementKind) Delta(quantity int64) int64 {
	if k.Decrements() {
		return -quantity
	}
	return quantity
}

// Movement is a single ledger entry. Entries are immutable once
// written; a reversal is a new entry, never an edit of a prior one.
type Movement struct {
	ID        id.ID        `db:"id" json:"id"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	Kind      MovementKind `db:"kind" json:"kind"`

	// Quantity is always positive; the sign comes from Kind.
	Quantity int64 `db:"quantity" json:"quantity"`

	// Delta is the signed change as applied to the counter.
	Delta int64 `db:"delta" json:"delta"`

	// UnitPrice is the price at the time of the movement.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// TotalAmount is quantity x unit price for sales, negated for
	// reversals so revenue sums are net of reversals.
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	ActorID string `db:"actor_id" json:"actorId,omitempty"`
	Note    string `db:"note" json:"note,omitempty"`

	// ReversedBy is set on a sale once a reversal entry exists for it.
	ReversedBy *id.ID `db:"reversed_by" json:"reversedBy,omitempty"`

	// ReversalOf points a reversal entry back at its original sale.
	ReversalOf *id.ID `db:"reversal_of" json:"reversalOf,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// ProductName is populated by listing queries only.
	ProductName string `db:"product_name" json:"productName,omitempty"`
}

// IsReversed reports whether a reversal entry exists for this movement.
func (m *Movement) IsReversed() bool {
	return m.ReversedBy != nil
}

// ApplyInput describes a requested movement.
type ApplyInput struct {
	ProductID id.ID
	Kind      MovementKind

	// Quantity must be a positive integer.
	Quantity int64

	// UnitPrice values the movement. Nil means use the product's
	// current price at apply time (the normal case for sales).
	UnitPrice *types.Money

	ActorID string
	Note    string
}

// MovementResult reports a successfully applied movement.
type MovementResult struct {
	MovementID id.ID `json:"movementId"`
	NewStock   int64 `json:"newStock"`
}

// Filter narrows movement listings.
type Filter struct {
	ProductID *id.ID
	Kind      *MovementKind
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Offset    int
}
