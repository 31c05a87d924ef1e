// Package ledger_repo provides the PostgreSQL movement log.
package ledger_repo

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
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
)

const movementsTable = "stock_movements"

var _ ledger.Log = (*Repo)(nil)

// Repo implements ledger.Log over the stock_movements table. Rows
// are insert-only; the single mutable column is reversed_by, claimed
// exactly once by MarkReversed.
type Repo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewRepo creates a movement log repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *Repo) Append(ctx context.Context, m *ledger.Movement) error {
	sql, args, err := r.builder.Insert(movementsTable).
		Columns("id", "product_id", "kind", "quantity", "delta",
			"unit_price", "total_amount", "actor_id", "note",
			"reversal_of", "created_at").
		Values(m.ID, m.ProductID, m.Kind, m.Quantity, m.Delta,
			m.UnitPrice, m.TotalAmount, m.ActorID, m.Note,
			m.ReversalOf, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, movementID id.ID) (*ledger.Movement, error) {
	sql, args, err := r.selectQuery().Where(squirrel.Eq{"m.id": movementID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var m ledger.Movement
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &m, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("movement", movementID.String())
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// MarkReversed claims the reversal atomically. The WHERE clause only
// matches while reversed_by is NULL, so of two racing reversals one
// updates zero rows and reports false.
func (r *Repo) MarkReversed(ctx context.Context, originalID, reversalID id.ID) (bool, error) {
	const sql = `
		UPDATE stock_movements
		SET reversed_by = $2
		WHERE id = $1 AND reversed_by IS NULL
	`
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, originalID, reversalID)
	if err != nil {
		return false, fmt.Errorf("mark reversed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repo) List(ctx context.Context, filter ledger.Filter) ([]ledger.Movement, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var movements []ledger.Movement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

func (r *Repo) listQuery(filter ledger.Filter) squirrel.SelectBuilder {
	q := r.selectQuery().OrderBy("m.created_at DESC", "m.id DESC")

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"m.product_id": *filter.ProductID})
	}
	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"m.kind": *filter.Kind})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"m.created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"m.created_at": *filter.ToDate})
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
		"m.id", "m.product_id", "m.kind", "m.quantity", "m.delta",
		"m.unit_price", "m.total_amount", "m.actor_id", "m.note",
		"m.reversed_by", "m.reversal_of", "m.created_at",
		"COALESCE(p.name, '') AS product_name",
	).
		From(movementsTable + " m").
		LeftJoin("products p ON p.id = m.product_id")
}
