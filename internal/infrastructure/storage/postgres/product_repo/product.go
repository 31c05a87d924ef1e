// Package product_repo provides the PostgreSQL product repository and
// the locked stock counter used by the movement coordinator.
package product_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/product"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var _ product.Repository = (*Repo)(nil)
var _ ledger.StockStore = (*Repo)(nil)

// Repo implements product.Repository and ledger.StockStore over the
// products table. Both views share the table: the catalog side never
// writes quantity_in_stock, the ledger side writes nothing else.
type Repo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRepo creates a product repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// --- ledger.StockStore ---

// LockQuantity reads the counter row with FOR UPDATE. The row lock is
// held until the surrounding transaction commits or rolls back.
func (r *Repo) LockQuantity(ctx context.Context, productID id.ID) (ledger.StockRow, error) {
	const sql = `
		SELECT id, quantity_in_stock, price, COALESCE(cost_price, 0) AS cost_price
		FROM products
		WHERE id = $1
		FOR UPDATE
	`
	var row ledger.StockRow
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.StockRow{}, apperror.NewNotFound("product", productID.String())
		}
		return ledger.StockRow{}, fmt.Errorf("lock product row: %w", err)
	}
	return row, nil
}

// AdjustQuantity applies the signed delta to quantity_in_stock.
func (r *Repo) AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	const sql = `
		UPDATE products
		SET quantity_in_stock = quantity_in_stock + $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING quantity_in_stock
	`
	var quantity int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, productID, delta).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("product", productID.String())
		}
		return 0, fmt.Errorf("adjust quantity: %w", err)
	}
	return quantity, nil
}

// --- product.Repository ---

func (r *Repo) Create(ctx context.Context, p *product.Product) error {
	sql, args, err := r.builder.Insert(productsTable).
		Columns("id", "name", "sku", "description", "category_id", "supplier_id",
			"price", "cost_price", "quantity_in_stock", "reorder_level",
			"created_at", "updated_at").
		Values(p.ID, p.Name, p.SKU, p.Description, p.CategoryID, p.SupplierID,
			p.Price, p.CostPrice, p.QuantityInStock, p.ReorderLevel,
			p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"p.id": productID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *Repo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"p.sku": sku}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("product", sku)
		}
		return nil, fmt.Errorf("find product by sku: %w", err)
	}
	return &p, nil
}

// Update writes catalog fields only. quantity_in_stock is owned by
// the ledger and deliberately absent from the set list.
func (r *Repo) Update(ctx context.Context, p *product.Product) error {
	sql, args, err := r.builder.Update(productsTable).
		Set("name", p.Name).
		Set("sku", p.SKU).
		Set("description", p.Description).
		Set("category_id", p.CategoryID).
		Set("supplier_id", p.SupplierID).
		Set("price", p.Price).
		Set("cost_price", p.CostPrice).
		Set("reorder_level", p.ReorderLevel).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, productID id.ID) error {
	sql, args, err := r.builder.Delete(productsTable).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

func (r *Repo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	const sql = `
		SELECT EXISTS (SELECT 1 FROM stock_movements WHERE product_id = $1)
		    OR EXISTS (SELECT 1 FROM purchase_orders WHERE product_id = $1)
	`
	var referenced bool
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, productID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check product references: %w", err)
	}
	return referenced, nil
}

func (r *Repo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var products []product.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *Repo) listQuery(filter product.ListFilter) squirrel.SelectBuilder {
	q := r.selectQuery().OrderBy("p.name ASC")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.sku": pattern},
		})
	}
	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"p.category_id": *filter.CategoryID})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"p.supplier_id": *filter.SupplierID})
	}
	if filter.LowStockOnly {
		q = q.Where("p.quantity_in_stock <= p.reorder_level")
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

func (r *Repo) selectQuery() squirrel.SelectBuilder {
	return r.builder.Select(
		"p.id", "p.name", "p.sku", "p.description",
		"p.category_id", "p.supplier_id",
		"p.price", "p.cost_price", "p.quantity_in_stock", "p.reorder_level",
		"p.created_at", "p.updated_at",
		"COALESCE(c.name, '') AS category_name",
		"COALESCE(s.name, '') AS supplier_name",
	).
		From(productsTable + " p").
		LeftJoin("categories c ON c.id = p.category_id").
		LeftJoin("suppliers s ON s.id = p.supplier_id")
}
