// Package purchase_repo provides the PostgreSQL purchase order
// repository.
package purchase_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/purchase"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
)

const ordersTable = "purchase_orders"

var _ purchase.Repository = (*Repo)(nil)

// Repo implements purchase.Repository.
type Repo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRepo creates a purchase order repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *Repo) Create(ctx context.Context, order *purchase.PurchaseOrder) error {
	sql, args, err := r.builder.Insert(ordersTable).
		Columns("id", "supplier_id", "product_id", "quantity", "unit_cost",
			"total_cost", "status", "order_date", "expected_delivery",
			"received_at", "actor_id", "notes").
		Values(order.ID, order.SupplierID, order.ProductID, order.Quantity, order.UnitCost,
			order.TotalCost, order.Status, order.OrderDate, order.Expected,
			order.ReceivedAt, order.ActorID, order.Notes).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"o.id": orderID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.getOne(ctx, orderID, sql, args)
}

// GetForUpdate locks the order row so concurrent transitions on the
// same order serialize. The joined-name columns are skipped because
// FOR UPDATE does not allow locking the nullable side of outer joins.
func (r *Repo) GetForUpdate(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	const sql = `
		SELECT id, supplier_id, product_id, quantity, unit_cost,
		       total_cost, status, order_date, expected_delivery,
		       received_at, actor_id, notes
		FROM purchase_orders
		WHERE id = $1
		FOR UPDATE
	`
	var order purchase.PurchaseOrder
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &order, sql, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("purchase order", orderID.String())
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return &order, nil
}

func (r *Repo) Update(ctx context.Context, order *purchase.PurchaseOrder) error {
	sql, args, err := r.builder.Update(ordersTable).
		Set("quantity", order.Quantity).
		Set("unit_cost", order.UnitCost).
		Set("total_cost", order.TotalCost).
		Set("expected_delivery", order.Expected).
		Set("notes", order.Notes).
		Where(squirrel.Eq{"id": order.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase order", order.ID.String())
	}
	return nil
}

func (r *Repo) UpdateStatus(ctx context.Context, orderID id.ID, status purchase.Status, receivedAt *time.Time) error {
	q := r.builder.Update(ordersTable).
		Set("status", status).
		Where(squirrel.Eq{"id": orderID})
	if receivedAt != nil {
		q = q.Set("received_at", *receivedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase order", orderID.String())
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, orderID id.ID) error {
	sql, args, err := r.builder.Delete(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase order", orderID.String())
	}
	return nil
}

func (r *Repo) List(ctx context.Context, filter purchase.ListFilter) ([]purchase.PurchaseOrder, error) {
	q := r.selectQuery().OrderBy("o.order_date DESC", "o.id DESC")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"o.status": *filter.Status})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"o.supplier_id": *filter.SupplierID})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"o.product_id": *filter.ProductID})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var orders []purchase.PurchaseOrder
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *Repo) getOne(ctx context.Context, orderID id.ID, sql string, args []any) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &order, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("purchase order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

func (r *Repo) selectQuery() squirrel.SelectBuilder {
	return r.builder.Select(
		"o.id", "o.supplier_id", "o.product_id", "o.quantity", "o.unit_cost",
		"o.total_cost", "o.status", "o.order_date", "o.expected_delivery",
		"o.received_at", "o.actor_id", "o.notes",
		"COALESCE(s.name, '') AS supplier_name",
		"COALESCE(p.name, '') AS product_name",
	).
		From(ordersTable + " o").
		LeftJoin("suppliers s ON s.id = o.supplier_id").
		LeftJoin("products p ON p.id = o.product_id")
}
