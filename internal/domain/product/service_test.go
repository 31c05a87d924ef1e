package product_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/product"
)

// fakeRepo is an in-memory product.Repository.
type fakeRepo struct {
	products   map[id.ID]*product.Product
	referenced map[id.ID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:   make(map[id.ID]*product.Product),
		referenced: make(map[id.ID]bool),
	}
}

func (r *fakeRepo) Create(ctx context.Context, p *product.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

func (r *fakeRepo) Update(ctx context.Context, p *product.Product) error {
	stored, ok := r.products[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	cp := *p
	cp.QuantityInStock = stored.QuantityInStock
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, productID id.ID) error {
	delete(r.products, productID)
	return nil
}

func (r *fakeRepo) HasMovements(ctx context.Context, productID id.ID) (bool, error) {
	return r.referenced[productID], nil
}

func (r *fakeRepo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	out := make([]product.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(p.SKU), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.LowStockOnly && !p.LowStock() {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

// nopTx runs the function directly; these tests do not exercise
// rollback.
type nopTx struct{}

func (nopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*product.Service, *fakeRepo) {
	repo := newFakeRepo()
	return product.NewService(repo, nopTx{}, nil), repo
}

func TestCreate_SeedsInitialStock(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), product.CreateInput{
		Name:         "Ballpoint Pen",
		SKU:          "PEN-001",
		Price:        types.MustMoney("2.00"),
		InitialStock: 10,
		ReorderLevel: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.QuantityInStock)
	assert.False(t, p.LowStock())

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ballpoint Pen", stored.Name)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name string
		in   product.CreateInput
	}{
		{"empty name", product.CreateInput{Price: types.MustMoney("1.00")}},
		{"negative price", product.CreateInput{Name: "X", Price: types.MustMoney("-1.00")}},
		{"negative initial stock", product.CreateInput{Name: "X", Price: types.MustMoney("1.00"), InitialStock: -1}},
		{"negative reorder level", product.CreateInput{Name: "X", Price: types.MustMoney("1.00"), ReorderLevel: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
		})
	}
}

func TestCreate_DuplicateSKU(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), product.CreateInput{
		Name: "First", SKU: "DUP-1", Price: types.MustMoney("1.00"),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), product.CreateInput{
		Name: "Second", SKU: "DUP-1", Price: types.MustMoney("1.00"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)
}

func TestUpdate_NeverTouchesQuantity(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), product.CreateInput{
		Name:         "Notebook",
		Price:        types.MustMoney("5.00"),
		InitialStock: 42,
	})
	require.NoError(t, err)

	newPrice := types.MustMoney("6.50")
	reorder := int64(5)
	updated, err := svc.Update(context.Background(), p.ID, product.UpdateInput{
		Price:        &newPrice,
		ReorderLevel: &reorder,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, int64(5), updated.ReorderLevel)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), stored.QuantityInStock)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService()
	name := "Ghost"
	_, err := svc.Update(context.Background(), id.New(), product.UpdateInput{Name: &name})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestDelete_BlockedWhenReferenced(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), product.CreateInput{
		Name: "Stapler", Price: types.MustMoney("8.00"),
	})
	require.NoError(t, err)
	repo.referenced[p.ID] = true

	err = svc.Delete(context.Background(), p.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)

	_, err = repo.GetByID(context.Background(), p.ID)
	assert.NoError(t, err, "product must survive a blocked delete")
}

func TestDelete_Unreferenced(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), product.CreateInput{
		Name: "Eraser", Price: types.MustMoney("0.50"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	_, err = repo.GetByID(context.Background(), p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_LowStockFilter(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), product.CreateInput{
		Name: "Plenty", Price: types.MustMoney("1.00"), InitialStock: 50, ReorderLevel: 5,
	})
	require.NoError(t, err)
	low, err := svc.Create(context.Background(), product.CreateInput{
		Name: "Scarce", Price: types.MustMoney("1.00"), InitialStock: 2, ReorderLevel: 5,
	})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), product.ListFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}
