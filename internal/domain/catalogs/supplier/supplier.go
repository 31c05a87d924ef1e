// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"fmt"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/tx"
)

// Supplier is a replenishment source referenced by purchase orders.
type Supplier struct {
	ID            id.ID     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ContactPerson string    `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Email         string    `db:"email" json:"email,omitempty"`
	Address       string    `db:"address" json:"address,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks supplier invariants.
func (s *Supplier) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Repository defines supplier persistence.
type Repository interface {
	Create(ctx context.Context, sup *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	Update(ctx context.Context, sup *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	// HasOrders reports whether any purchase order references the
	// supplier.
	HasOrders(ctx context.Context, supplierID id.ID) (bool, error)
	List(ctx context.Context) ([]Supplier, error)
}

// Service provides supplier operations.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a supplier service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// CreateInput describes a new supplier.
type CreateInput struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

// Create inserts a supplier.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Supplier, error) {
	sup := &Supplier{
		ID:            id.New(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		CreatedAt:     time.Now().UTC(),
	}
	if err := sup.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return sup, nil
}

// Update edits supplier contact details.
func (s *Service) Update(ctx context.Context, supplierID id.ID, in CreateInput) (*Supplier, error) {
	var sup *Supplier
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		sup, err = s.repo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		sup.Name = in.Name
		sup.ContactPerson = in.ContactPerson
		sup.Phone = in.Phone
		sup.Email = in.Email
		sup.Address = in.Address
		if err := sup.Validate(ctx); err != nil {
			return err
		}
		return s.repo.Update(ctx, sup)
	})
	if err != nil {
		return nil, err
	}
	return sup, nil
}

// Delete removes a supplier unless purchase orders reference it.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, supplierID); err != nil {
			return err
		}
		referenced, err := s.repo.HasOrders(ctx, supplierID)
		if err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if referenced {
			return apperror.NewConflict("supplier has purchase orders and cannot be deleted").
				WithDetail("supplier_id", supplierID.String())
		}
		return s.repo.Delete(ctx, supplierID)
	})
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// List retrieves all suppliers ordered by name.
func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}
