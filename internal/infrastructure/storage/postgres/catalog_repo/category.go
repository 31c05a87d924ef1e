// Package catalog_repo provides PostgreSQL repositories for the
// category and supplier catalogs.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/category"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
)

const categoriesTable = "categories"

var _ category.Repository = (*CategoryRepo)(nil)

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCategoryRepo creates a category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	sql, args, err := r.builder.Insert(categoriesTable).
		Columns("id", "name", "description", "created_at").
		Values(c.ID, c.Name, c.Description, c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	sql, args, err := r.builder.
		Select("id", "name", "description", "created_at").
		From(categoriesTable).
		Where(squirrel.Eq{"id": categoryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var c category.Category
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("category", categoryID.String())
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*category.Category, error) {
	sql, args, err := r.builder.
		Select("id", "name", "description", "created_at").
		From(categoriesTable).
		Where("lower(name) = lower(?)", name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var c category.Category
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("category", name)
		}
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	sql, args, err := r.builder.Update(categoriesTable).
		Set("name", c.Name).
		Set("description", c.Description).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", c.ID.String())
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	sql, args, err := r.builder.Delete(categoriesTable).
		Where(squirrel.Eq{"id": categoryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", categoryID.String())
	}
	return nil
}

func (r *CategoryRepo) HasProducts(ctx context.Context, categoryID id.ID) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)`
	var referenced bool
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, categoryID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check category references: %w", err)
	}
	return referenced, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]category.Category, error) {
	sql, _, err := r.builder.
		Select("id", "name", "description", "created_at").
		From(categoriesTable).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var categories []category.Category
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &categories, sql); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
