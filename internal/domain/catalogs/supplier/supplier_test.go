package supplier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/catalogs/supplier"
)

type fakeRepo struct {
	suppliers  map[id.ID]*supplier.Supplier
	referenced map[id.ID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		suppliers:  make(map[id.ID]*supplier.Supplier),
		referenced: make(map[id.ID]bool),
	}
}

func (r *fakeRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	s, ok := r.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, supplierID id.ID) error {
	delete(r.suppliers, supplierID)
	return nil
}

func (r *fakeRepo) HasOrders(ctx context.Context, supplierID id.ID) (bool, error) {
	return r.referenced[supplierID], nil
}

func (r *fakeRepo) List(ctx context.Context) ([]supplier.Supplier, error) {
	out := make([]supplier.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

type nopTx struct{}

func (nopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := supplier.NewService(newFakeRepo(), nopTx{})

	s, err := svc.Create(context.Background(), supplier.CreateInput{
		Name:  "Acme Wholesale",
		Email: "orders@acme.test",
	})
	require.NoError(t, err)
	assert.False(t, id.IsNil(s.ID))
	assert.Equal(t, "Acme Wholesale", s.Name)

	_, err = svc.Create(context.Background(), supplier.CreateInput{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
}

func TestDelete_BlockedWhenOrdered(t *testing.T) {
	repo := newFakeRepo()
	svc := supplier.NewService(repo, nopTx{})

	s, err := svc.Create(context.Background(), supplier.CreateInput{Name: "Northwind"})
	require.NoError(t, err)
	repo.referenced[s.ID] = true

	err = svc.Delete(context.Background(), s.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)

	repo.referenced[s.ID] = false
	require.NoError(t, svc.Delete(context.Background(), s.ID))
	_, err = svc.GetByID(context.Background(), s.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_ReplacesContactDetails(t *testing.T) {
	svc := supplier.NewService(newFakeRepo(), nopTx{})

	s, err := svc.Create(context.Background(), supplier.CreateInput{Name: "Northwind"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), s.ID, supplier.CreateInput{
		Name:          "Northwind Traders",
		ContactPerson: "M. Suyama",
		Phone:         "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "Northwind Traders", updated.Name)
	assert.Equal(t, "M. Suyama", updated.ContactPerson)

	_, err = svc.Update(context.Background(), s.ID, supplier.CreateInput{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
}
