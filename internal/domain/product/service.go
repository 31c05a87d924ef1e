package product

import (
	"context"
	"fmt"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/actor"
	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/tx"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/audit"
)

// Service provides product catalog operations.
type Service struct {
	repo  Repository
	txm   tx.Manager
	audit audit.Recorder
}

// NewService creates a product service.
func NewService(repo Repository, txm tx.Manager, recorder audit.Recorder) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{repo: repo, txm: txm, audit: recorder}
}

// CreateInput describes a new catalog item.
type CreateInput struct {
	Name        string
	SKU         string
	Description string
	CategoryID  *id.ID
	SupplierID  *id.ID
	Price       types.Money
	CostPrice   *types.Money
	// InitialStock seeds the quantity counter. Later changes go
	// through ledger movements only.
	InitialStock int64
	ReorderLevel int64
}

// Create inserts a product with its opening stock.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	if in.InitialStock < 0 {
		return nil, apperror.NewValidation("initial stock cannot be negative").
			WithDetail("field", "initialStock")
	}

	now := time.Now().UTC()
	p := &Product{
		ID:              id.New(),
		Name:            in.Name,
		SKU:             in.SKU,
		Description:     in.Description,
		CategoryID:      in.CategoryID,
		SupplierID:      in.SupplierID,
		Price:           in.Price,
		CostPrice:       in.CostPrice,
		QuantityInStock: in.InitialStock,
		ReorderLevel:    in.ReorderLevel,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if p.SKU != "" {
			if existing, err := s.repo.FindBySKU(ctx, p.SKU); err == nil && existing.ID != p.ID {
				return apperror.NewConflict("product with this SKU already exists").
					WithDetail("sku", p.SKU)
			}
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: "product",
			EntityID:   p.ID,
			Action:     audit.ActionCreate,
			ActorID:    actor.IDFromContext(ctx),
			Changes: map[string]any{
				"name":          p.Name,
				"price":         p.Price.String(),
				"initial_stock": p.QuantityInStock,
			},
		})
	})
	if err != nil {
		return nil, asStorageError(err)
	}
	return p, nil
}

// UpdateInput carries editable catalog fields. Stock quantity is
// deliberately absent.
type UpdateInput struct {
	Name         *string
	SKU          *string
	Description  *string
	CategoryID   *id.ID
	SupplierID   *id.ID
	Price        *types.Money
	CostPrice    *types.Money
	ReorderLevel *int64
}

// Update edits catalog fields of a product.
func (s *Service) Update(ctx context.Context, productID id.ID, in UpdateInput) (*Product, error) {
	var p *Product
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		changes := map[string]any{}
		if in.Name != nil {
			p.Name = *in.Name
			changes["name"] = p.Name
		}
		if in.SKU != nil {
			p.SKU = *in.SKU
			changes["sku"] = p.SKU
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.CategoryID != nil {
			p.CategoryID = in.CategoryID
		}
		if in.SupplierID != nil {
			p.SupplierID = in.SupplierID
		}
		if in.Price != nil {
			p.Price = *in.Price
			changes["price"] = p.Price.String()
		}
		if in.CostPrice != nil {
			p.CostPrice = in.CostPrice
			changes["cost_price"] = in.CostPrice.String()
		}
		if in.ReorderLevel != nil {
			p.ReorderLevel = *in.ReorderLevel
			changes["reorder_level"] = p.ReorderLevel
		}
		p.UpdatedAt = time.Now().UTC()

		if err := p.Validate(ctx); err != nil {
			return err
		}
		if in.SKU != nil && p.SKU != "" {
			if existing, err := s.repo.FindBySKU(ctx, p.SKU); err == nil && existing.ID != p.ID {
				return apperror.NewConflict("product with this SKU already exists").
					WithDetail("sku", p.SKU)
			}
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: "product",
			EntityID:   productID,
			Action:     audit.ActionUpdate,
			ActorID:    actor.IDFromContext(ctx),
			Changes:    changes,
		})
	})
	if err != nil {
		return nil, asStorageError(err)
	}
	return p, nil
}

// Delete removes a product. Products referenced by ledger entries or
// purchase orders cannot be deleted; the history must stay
// explainable.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, productID); err != nil {
			return err
		}
		referenced, err := s.repo.HasMovements(ctx, productID)
		if err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if referenced {
			return apperror.NewConflict("product has recorded movements or orders and cannot be deleted").
				WithDetail("product_id", productID.String())
		}
		if err := s.repo.Delete(ctx, productID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return s.audit.Record(ctx, audit.Entry{
			EntityType: "product",
			EntityID:   productID,
			Action:     audit.ActionDelete,
			ActorID:    actor.IDFromContext(ctx),
		})
	})
	if err != nil {
		return asStorageError(err)
	}
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List retrieves products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}

func asStorageError(err error) error {
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewStorageFailure(err)
}
