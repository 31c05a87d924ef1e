// Package category provides the product category catalog.
package category

import (
	"context"
	"fmt"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/tx"
)

// Category groups products for browsing and reports.
type Category struct {
	ID          id.ID     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Repository defines category persistence.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, categoryID id.ID) error
	// HasProducts reports whether any product references the
	// category.
	HasProducts(ctx context.Context, categoryID id.ID) (bool, error)
	List(ctx context.Context) ([]Category, error)
}

// Service provides category operations.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a category service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// Create inserts a category. Names are unique.
func (s *Service) Create(ctx context.Context, name, description string) (*Category, error) {
	if name == "" {
		return nil, apperror.NewValidation("category name is required").
			WithDetail("field", "name")
	}

	c := &Category{
		ID:          id.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.repo.FindByName(ctx, name); err == nil && existing.ID != c.ID {
			return apperror.NewConflict("category with this name already exists").
				WithDetail("name", name)
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update renames a category.
func (s *Service) Update(ctx context.Context, categoryID id.ID, name, description string) (*Category, error) {
	if name == "" {
		return nil, apperror.NewValidation("category name is required").
			WithDetail("field", "name")
	}

	var c *Category
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.repo.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if existing, err := s.repo.FindByName(ctx, name); err == nil && existing.ID != categoryID {
			return apperror.NewConflict("category with this name already exists").
				WithDetail("name", name)
		}
		c.Name = name
		c.Description = description
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a category. Categories still referenced by products
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, categoryID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
			return err
		}
		referenced, err := s.repo.HasProducts(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if referenced {
			return apperror.NewConflict("category has products and cannot be deleted").
				WithDetail("category_id", categoryID.String())
		}
		return s.repo.Delete(ctx, categoryID)
	})
}

// GetByID retrieves a category.
func (s *Service) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// List retrieves all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}
