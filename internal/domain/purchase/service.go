package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/tx"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/audit"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
	"github.com/sahan201/basic-inventory-management-system/pkg/logger"
)

// Service drives the purchase order state machine. Receiving an order
// delegates the stock increment to the movement coordinator inside
// the same transaction as the status change, so the transition and
// the increment succeed or fail together.
type Service struct {
	repo        Repository
	coordinator *ledger.Coordinator
	txm         tx.Manager
	audit       audit.Recorder
}

// NewService creates a purchase order service.
func NewService(repo Repository, coordinator *ledger.Coordinator, txm tx.Manager, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:        repo,
		coordinator: coordinator,
		txm:         txm,
		audit:       recorder,
	}
}

// CreateInput describes a new purchase order.
type CreateInput struct {
	SupplierID id.ID
	ProductID  id.ID
	Quantity   int64
	UnitCost   types.Money
	Expected   *time.Time
	ActorID    string
	Notes      string
}

// Create produces a PENDING order with its total cost computed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*PurchaseOrder, error) {
	order := &PurchaseOrder{
		ID:         id.New(),
		SupplierID: in.SupplierID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Status:     StatusPending,
		OrderDate:  time.Now().UTC(),
		Expected:   in.Expected,
		ActorID:    in.ActorID,
		Notes:      in.Notes,
	}
	order.RecalculateTotal()

	if err := order.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: "purchase_order",
			EntityID:   order.ID,
			Action:     audit.ActionCreate,
			ActorID:    in.ActorID,
			Changes: map[string]any{
				"product_id": order.ProductID.String(),
				"quantity":   order.Quantity,
				"total_cost": order.TotalCost.String(),
			},
		})
	})
	if err != nil {
		return nil, asStorageError(err)
	}

	logger.Info(ctx, "purchase order created",
		"order_id", order.ID,
		"product_id", order.ProductID,
		"quantity", order.Quantity,
	)
	return order, nil
}

// ReceiveResult reports a successful receipt.
type ReceiveResult struct {
	NewStock   int64 `json:"newStock"`
	MovementID id.ID `json:"movementId"`
}

// Receive transitions a PENDING order to RECEIVED and applies the
// PURCHASE_RECEIPT movement for its quantity. On movement failure the
// order remains PENDING. A second Receive fails with
// InvalidStateTransition and applies no second increment.
func (s *Service) Receive(ctx context.Context, orderID id.ID, actorID string) (ReceiveResult, error) {
	var result ReceiveResult
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != StatusPending {
			return apperror.NewInvalidStateTransition(orderID.String(), string(order.Status), string(StatusReceived))
		}

		res, err := s.coordinator.ApplyMovement(ctx, ledger.ApplyInput{
			ProductID: order.ProductID,
			Kind:      ledger.KindPurchaseReceipt,
			Quantity:  order.Quantity,
			UnitPrice: &order.UnitCost,
			ActorID:   actorID,
			Note:      fmt.Sprintf("purchase order %s", orderID),
		})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := s.repo.UpdateStatus(ctx, orderID, StatusReceived, &now); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		if err := s.audit.Record(ctx, audit.Entry{
			EntityType: "purchase_order",
			EntityID:   orderID,
			Action:     audit.ActionReceive,
			ActorID:    actorID,
			Changes: map[string]any{
				"quantity":  order.Quantity,
				"new_stock": res.NewStock,
			},
		}); err != nil {
			return fmt.Errorf("record audit: %w", err)
		}

		result = ReceiveResult{NewStock: res.NewStock, MovementID: res.MovementID}
		return nil
	})
	if err != nil {
		return ReceiveResult{}, asStorageError(err)
	}

	logger.Info(ctx, "purchase order received",
		"order_id", orderID,
		"new_stock", result.NewStock,
	)
	return result, nil
}

// Cancel transitions a PENDING order to CANCELLED. No stock effect.
func (s *Service) Cancel(ctx context.Context, orderID id.ID, actorID string) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != StatusPending {
			return apperror.NewInvalidStateTransition(orderID.String(), string(order.Status), string(StatusCancelled))
		}
		if err := s.repo.UpdateStatus(ctx, orderID, StatusCancelled, nil); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: "purchase_order",
			EntityID:   orderID,
			Action:     audit.ActionCancel,
			ActorID:    actorID,
		})
	})
	if err != nil {
		return asStorageError(err)
	}

	logger.Info(ctx, "purchase order cancelled", "order_id", orderID)
	return nil
}

// UpdateInput carries editable fields of a pending order.
type UpdateInput struct {
	Quantity *int64
	UnitCost *types.Money
	Expected *time.Time
	Notes    *string
}

// Update edits a PENDING order; total cost is recomputed.
func (s *Service) Update(ctx context.Context, orderID id.ID, in UpdateInput, actorID string) (*PurchaseOrder, error) {
	var order *PurchaseOrder
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != StatusPending {
			return apperror.NewInvalidStateTransition(orderID.String(), string(order.Status), string(order.Status))
		}

		if in.Quantity != nil {
			order.Quantity = *in.Quantity
		}
		if in.UnitCost != nil {
			order.UnitCost = *in.UnitCost
		}
		if in.Expected != nil {
			order.Expected = in.Expected
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		order.RecalculateTotal()

		if err := order.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: "purchase_order",
			EntityID:   orderID,
			Action:     audit.ActionUpdate,
			ActorID:    actorID,
			Changes: map[string]any{
				"quantity":   order.Quantity,
				"total_cost": order.TotalCost.String(),
			},
		})
	})
	if err != nil {
		return nil, asStorageError(err)
	}
	return order, nil
}

// Delete removes an order. Permitted only while PENDING: a received
// order is an immutable historical record.
func (s *Service) Delete(ctx context.Context, orderID id.ID, actorID string) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != StatusPending {
			return apperror.NewInvalidStateTransition(orderID.String(), string(order.Status), "deleted")
		}
		if err := s.repo.Delete(ctx, orderID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: "purchase_order",
			EntityID:   orderID,
			Action:     audit.ActionDelete,
			ActorID:    actorID,
		})
	})
	if err != nil {
		return asStorageError(err)
	}

	logger.Info(ctx, "purchase order deleted", "order_id", orderID)
	return nil
}

// GetByID retrieves an order.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, orderID)
}

// List retrieves orders matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]PurchaseOrder, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperror.NewValidation("unknown order status").
			WithDetail("status", string(*filter.Status))
	}
	return s.repo.List(ctx, filter)
}

func asStorageError(err error) error {
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewStorageFailure(err)
}
