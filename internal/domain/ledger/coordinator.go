package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/tx"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/audit"
	"github.com/sahan201/basic-inventory-management-system/pkg/logger"
)

// Coordinator is the transactional core of the ledger. It validates a
// requested movement against current stock and applies the counter
// delta and the ledger append as one atomic unit.
//
// The check-and-apply sequence runs under the row lock taken by
// StockStore.LockQuantity, inside a single transaction, so a lost
// update is structurally impossible: the second of two concurrent
// movements observes the first's committed effect.
type Coordinator struct {
	stock StockStore
	log   Log
	txm   tx.Manager
	audit audit.Recorder
}

// NewCoordinator creates a movement coordinator.
func NewCoordinator(stock StockStore, log Log, txm tx.Manager, recorder audit.Recorder) *Coordinator {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Coordinator{
		stock: stock,
		log:   log,
		txm:   txm,
		audit: recorder,
	}
}

// ApplyMovement validates and applies a stock movement atomically.
//
// On success exactly one ledger entry is durably appended and the
// counter reflects the delta. On any failure neither is changed.
// Failure kinds: NotFound (unknown product), InsufficientStock
// (decrement would go negative, carries the available quantity),
// StorageFailure (transaction could not commit; retryable).
func (c *Coordinator) ApplyMovement(ctx context.Context, in ApplyInput) (MovementResult, error) {
	if err := validateInput(in); err != nil {
		return MovementResult{}, err
	}

	var result MovementResult
	err := c.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		m, newStock, err := c.apply(ctx, in)
		if err != nil {
			return err
		}
		result = MovementResult{MovementID: m.ID, NewStock: newStock}
		return nil
	})
	if err != nil {
		return MovementResult{}, asLedgerError(err)
	}

	logger.Info(ctx, "stock movement applied",
		"movement_id", result.MovementID,
		"product_id", in.ProductID,
		"kind", in.Kind,
		"quantity", in.Quantity,
		"new_stock", result.NewStock,
	)

	return result, nil
}

// apply runs the locked check-and-apply sequence. Must be called
// inside a transaction.
func (c *Coordinator) apply(ctx context.Context, in ApplyInput) (*Movement, int64, error) {
	row, err := c.stock.LockQuantity(ctx, in.ProductID)
	if err != nil {
		return nil, 0, err
	}

	if in.Kind.Decrements() && row.Quantity < in.Quantity {
		return nil, 0, apperror.NewInsufficientStock(in.ProductID.String(), in.Quantity, row.Quantity)
	}

	delta := in.Kind.Delta(in.Quantity)
	newStock, err := c.stock.AdjustQuantity(ctx, in.ProductID, delta)
	if err != nil {
		return nil, 0, fmt.Errorf("adjust quantity: %w", err)
	}

	unitPrice := row.UnitPrice
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	total := types.MoneyFromUnits(unitPrice, in.Quantity)
	if in.Kind == KindSaleReversal {
		total = total.Neg()
	}

	m := &Movement{
		ID:          id.New(),
		ProductID:   in.ProductID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		Delta:       delta,
		UnitPrice:   unitPrice,
		TotalAmount: total,
		ActorID:     in.ActorID,
		Note:        in.Note,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.log.Append(ctx, m); err != nil {
		return nil, 0, fmt.Errorf("append movement: %w", err)
	}

	err = c.audit.Record(ctx, audit.Entry{
		EntityType: "stock_movement",
		EntityID:   m.ID,
		Action:     auditAction(in.Kind),
		ActorID:    in.ActorID,
		Changes: map[string]any{
			"product_id": in.ProductID.String(),
			"kind":       string(in.Kind),
			"quantity":   in.Quantity,
			"new_stock":  newStock,
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("record audit: %w", err)
	}

	return m, newStock, nil
}

// ReverseMovement applies the compensating movement for a prior sale.
// The original is marked reversed in the same transaction, so a
// second reversal attempt fails with AlreadyReversed and leaves stock
// unchanged.
func (c *Coordinator) ReverseMovement(ctx context.Context, movementID id.ID, actorID string) (MovementResult, error) {
	var result MovementResult
	err := c.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		orig, err := c.log.GetByID(ctx, movementID)
		if err != nil {
			return err
		}

		if orig.Kind != KindSale {
			return apperror.NewValidation("only sale movements can be reversed").
				WithDetail("movement_id", movementID.String()).
				WithDetail("kind", string(orig.Kind))
		}
		if orig.IsReversed() {
			return apperror.NewAlreadyReversed(movementID.String())
		}

		reversalID := id.New()
		claimed, err := c.log.MarkReversed(ctx, orig.ID, reversalID)
		if err != nil {
			return fmt.Errorf("mark reversed: %w", err)
		}
		if !claimed {
			return apperror.NewAlreadyReversed(movementID.String())
		}

		if _, err := c.stock.LockQuantity(ctx, orig.ProductID); err != nil {
			return err
		}
		newStock, err := c.stock.AdjustQuantity(ctx, orig.ProductID, orig.Quantity)
		if err != nil {
			return fmt.Errorf("adjust quantity: %w", err)
		}

		reversal := &Movement{
			ID:          reversalID,
			ProductID:   orig.ProductID,
			Kind:        KindSaleReversal,
			Quantity:    orig.Quantity,
			Delta:       orig.Quantity,
			UnitPrice:   orig.UnitPrice,
			TotalAmount: orig.TotalAmount.Neg(),
			ActorID:     actorID,
			ReversalOf:  &orig.ID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := c.log.Append(ctx, reversal); err != nil {
			return fmt.Errorf("append reversal: %w", err)
		}

		err = c.audit.Record(ctx, audit.Entry{
			EntityType: "stock_movement",
			EntityID:   orig.ID,
			Action:     audit.ActionReverse,
			ActorID:    actorID,
			Changes: map[string]any{
				"product_id":  orig.ProductID.String(),
				"reversal_id": reversalID.String(),
				"quantity":    orig.Quantity,
				"new_stock":   newStock,
			},
		})
		if err != nil {
			return fmt.Errorf("record audit: %w", err)
		}

		result = MovementResult{MovementID: reversalID, NewStock: newStock}
		return nil
	})
	if err != nil {
		return MovementResult{}, asLedgerError(err)
	}

	logger.Info(ctx, "stock movement reversed",
		"movement_id", movementID,
		"reversal_id", result.MovementID,
		"new_stock", result.NewStock,
	)

	return result, nil
}

// GetMovement retrieves a single ledger entry.
func (c *Coordinator) GetMovement(ctx context.Context, movementID id.ID) (*Movement, error) {
	return c.log.GetByID(ctx, movementID)
}

// ListMovements lists ledger entries, most recent first.
func (c *Coordinator) ListMovements(ctx context.Context, filter Filter) ([]Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return c.log.List(ctx, filter)
}

func validateInput(in ApplyInput) error {
	if id.IsNil(in.ProductID) {
		return apperror.NewValidation("product id is required")
	}
	if !in.Kind.Valid() {
		return apperror.NewValidation("unknown movement kind").
			WithDetail("kind", string(in.Kind))
	}
	if in.Quantity <= 0 {
		return apperror.NewValidation("quantity must be a positive integer").
			WithDetail("quantity", in.Quantity)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative")
	}
	return nil
}

func auditAction(kind MovementKind) audit.Action {
	switch kind {
	case KindSale:
		return audit.ActionSale
	case KindSaleReversal:
		return audit.ActionReverse
	default:
		return audit.ActionReceive
	}
}

// asLedgerError keeps typed business failures intact and folds
// everything else (commit failure, lock timeout, connectivity) into
// StorageFailure, which callers may retry with backoff.
func asLedgerError(err error) error {
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewStorageFailure(err)
}
