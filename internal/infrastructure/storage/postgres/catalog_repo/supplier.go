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
	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/supplier"
	"github.com/sahan201/basic-inventory-management-system/internal/infrastructure/storage/postgres"
)

const suppliersTable = "suppliers"

var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSupplierRepo creates a supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SupplierRepo) Create(ctx context.Context, sup *supplier.Supplier) error {
	sql, args, err := r.builder.Insert(suppliersTable).
		Columns("id", "name", "contact_person", "phone", "email", "address", "created_at").
		Values(sup.ID, sup.Name, sup.ContactPerson, sup.Phone, sup.Email, sup.Address, sup.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	sql, args, err := r.builder.
		Select("id", "name", "contact_person", "phone", "email", "address", "created_at").
		From(suppliersTable).
		Where(squirrel.Eq{"id": supplierID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var sup supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &sup, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &sup, nil
}

func (r *SupplierRepo) Update(ctx context.Context, sup *supplier.Supplier) error {
	sql, args, err := r.builder.Update(suppliersTable).
		Set("name", sup.Name).
		Set("contact_person", sup.ContactPerson).
		Set("phone", sup.Phone).
		Set("email", sup.Email).
		Set("address", sup.Address).
		Where(squirrel.Eq{"id": sup.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", sup.ID.String())
	}
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	sql, args, err := r.builder.Delete(suppliersTable).
		Where(squirrel.Eq{"id": supplierID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	return nil
}

func (r *SupplierRepo) HasOrders(ctx context.Context, supplierID id.ID) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE supplier_id = $1)`
	var referenced bool
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, supplierID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check supplier references: %w", err)
	}
	return referenced, nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]supplier.Supplier, error) {
	sql, _, err := r.builder.
		Select("id", "name", "contact_person", "phone", "email", "address", "created_at").
		From(suppliersTable).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var suppliers []supplier.Supplier
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &suppliers, sql); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}
