package purchase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger/ledgertest"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/purchase"
)

// fakeRepo is an in-memory purchase.Repository. The surrounding
// transaction fake already serializes access.
type fakeRepo struct {
	orders map[id.ID]*purchase.PurchaseOrder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[id.ID]*purchase.PurchaseOrder)}
}

func (r *fakeRepo) Create(ctx context.Context, order *purchase.PurchaseOrder) error {
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", orderID.String())
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	return r.GetByID(ctx, orderID)
}

func (r *fakeRepo) Update(ctx context.Context, order *purchase.PurchaseOrder) error {
	if _, ok := r.orders[order.ID]; !ok {
		return apperror.NewNotFound("purchase order", order.ID.String())
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, orderID id.ID, status purchase.Status, receivedAt *time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return apperror.NewNotFound("purchase order", orderID.String())
	}
	o.Status = status
	o.ReceivedAt = receivedAt
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, orderID id.ID) error {
	if _, ok := r.orders[orderID]; !ok {
		return apperror.NewNotFound("purchase order", orderID.String())
	}
	delete(r.orders, orderID)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter purchase.ListFilter) ([]purchase.PurchaseOrder, error) {
	out := make([]purchase.PurchaseOrder, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.SupplierID != nil && o.SupplierID != *filter.SupplierID {
			continue
		}
		if filter.ProductID != nil && o.ProductID != *filter.ProductID {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func newTestService(t *testing.T) (*purchase.Service, *fakeRepo, *ledgertest.Store) {
	t.Helper()
	store := ledgertest.New()
	repo := newFakeRepo()
	coord := ledger.NewCoordinator(store, store, store, nil)
	svc := purchase.NewService(repo, coord, store, nil)
	return svc, repo, store
}

func createPending(t *testing.T, svc *purchase.Service, productID id.ID, qty int64, cost string) *purchase.PurchaseOrder {
	t.Helper()
	order, err := svc.Create(context.Background(), purchase.CreateInput{
		SupplierID: id.New(),
		ProductID:  productID,
		Quantity:   qty,
		UnitCost:   types.MustMoney(cost),
		ActorID:    "buyer",
	})
	require.NoError(t, err)
	return order
}

func TestCreate_ComputesTotalAndStartsPending(t *testing.T) {
	svc, repo, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))

	order := createPending(t, svc, productID, 20, "7.00")

	assert.Equal(t, purchase.StatusPending, order.Status)
	assert.True(t, order.TotalCost.Equal(types.MustMoney("140.00")),
		"total cost %s", order.TotalCost)
	assert.Nil(t, order.ReceivedAt)

	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusPending, stored.Status)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []struct {
		name string
		in   purchase.CreateInput
	}{
		{"zero quantity", purchase.CreateInput{SupplierID: id.New(), ProductID: id.New(), Quantity: 0, UnitCost: types.MustMoney("1.00")}},
		{"negative quantity", purchase.CreateInput{SupplierID: id.New(), ProductID: id.New(), Quantity: -5, UnitCost: types.MustMoney("1.00")}},
		{"negative cost", purchase.CreateInput{SupplierID: id.New(), ProductID: id.New(), Quantity: 1, UnitCost: types.MustMoney("-1.00")}},
		{"nil supplier", purchase.CreateInput{ProductID: id.New(), Quantity: 1, UnitCost: types.MustMoney("1.00")}},
		{"nil product", purchase.CreateInput{SupplierID: id.New(), Quantity: 1, UnitCost: types.MustMoney("1.00")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
		})
	}
}

func TestReceive_AppliesReceiptAndStampsTimestamp(t *testing.T) {
	svc, repo, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 7, types.MustMoney("12.00"), types.MustMoney("7.00"))
	order := createPending(t, svc, productID, 20, "7.00")

	res, err := svc.Receive(context.Background(), order.ID, "warehouse")
	require.NoError(t, err)
	assert.Equal(t, int64(27), res.NewStock)
	assert.Equal(t, int64(27), store.Quantity(productID))

	updated, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusReceived, updated.Status)
	require.NotNil(t, updated.ReceivedAt)

	movements := store.Movements()
	require.Len(t, movements, 1)
	m := movements[0]
	assert.Equal(t, res.MovementID, m.ID)
	assert.Equal(t, ledger.KindPurchaseReceipt, m.Kind)
	assert.Equal(t, int64(20), m.Quantity)
	assert.True(t, m.UnitPrice.Equal(types.MustMoney("7.00")),
		"recorded at order cost, got %s", m.UnitPrice)
	assert.True(t, m.TotalAmount.Equal(types.MustMoney("140.00")))
}

func TestReceive_SecondReceiveRejectedWithoutSecondIncrement(t *testing.T) {
	svc, _, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))
	order := createPending(t, svc, productID, 20, "7.00")

	_, err := svc.Receive(context.Background(), order.ID, "warehouse")
	require.NoError(t, err)
	require.Equal(t, int64(20), store.Quantity(productID))

	_, err = svc.Receive(context.Background(), order.ID, "warehouse")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidStateTransition), "got %v", err)
	assert.Equal(t, int64(20), store.Quantity(productID))
	assert.Len(t, store.Movements(), 1)
}

func TestReceive_MovementFailureLeavesOrderPending(t *testing.T) {
	svc, repo, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))
	order := createPending(t, svc, productID, 20, "7.00")

	store.FailAppend = assert.AnError
	_, err := svc.Receive(context.Background(), order.ID, "warehouse")
	require.Error(t, err)
	assert.True(t, apperror.IsStorageFailure(err), "got %v", err)

	still, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusPending, still.Status)
	assert.Nil(t, still.ReceivedAt)
	assert.Equal(t, int64(0), store.Quantity(productID))
	assert.Empty(t, store.Movements())
}

func TestReceive_UnknownProductFails(t *testing.T) {
	svc, repo, _ := newTestService(t)
	order := createPending(t, svc, id.New(), 5, "3.00")

	_, err := svc.Receive(context.Background(), order.ID, "warehouse")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)

	still, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusPending, still.Status)
}

func TestReceive_UnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Receive(context.Background(), id.New(), "warehouse")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestCancel_FromPending(t *testing.T) {
	svc, repo, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))
	order := createPending(t, svc, productID, 20, "7.00")

	require.NoError(t, svc.Cancel(context.Background(), order.ID, "buyer"))

	cancelled, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCancelled, cancelled.Status)
	assert.Equal(t, int64(0), store.Quantity(productID), "cancel has no stock effect")
	assert.Empty(t, store.Movements())
}

func TestTerminalStatesRejectFurtherTransitions(t *testing.T) {
	svc, _, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))

	received := createPending(t, svc, productID, 3, "7.00")
	_, err := svc.Receive(context.Background(), received.ID, "warehouse")
	require.NoError(t, err)

	cancelled := createPending(t, svc, productID, 3, "7.00")
	require.NoError(t, svc.Cancel(context.Background(), cancelled.ID, "buyer"))

	for _, orderID := range []id.ID{received.ID, cancelled.ID} {
		err := svc.Cancel(context.Background(), orderID, "buyer")
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidStateTransition), "cancel: %v", err)

		err = svc.Delete(context.Background(), orderID, "buyer")
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidStateTransition), "delete: %v", err)

		_, err = svc.Update(context.Background(), orderID, purchase.UpdateInput{}, "buyer")
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidStateTransition), "update: %v", err)
	}
}

func TestUpdate_RecomputesTotal(t *testing.T) {
	svc, _, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))
	order := createPending(t, svc, productID, 20, "7.00")

	qty := int64(30)
	cost := types.MustMoney("6.50")
	updated, err := svc.Update(context.Background(), order.ID, purchase.UpdateInput{
		Quantity: &qty,
		UnitCost: &cost,
	}, "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(30), updated.Quantity)
	assert.True(t, updated.TotalCost.Equal(types.MustMoney("195.00")),
		"total %s", updated.TotalCost)
}

func TestDelete_PendingOnly(t *testing.T) {
	svc, repo, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))
	order := createPending(t, svc, productID, 20, "7.00")

	require.NoError(t, svc.Delete(context.Background(), order.ID, "buyer"))

	_, err := repo.GetByID(context.Background(), order.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_FiltersByStatus(t *testing.T) {
	svc, _, store := newTestService(t)
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("12.00"), types.MustMoney("7.00"))

	pending := createPending(t, svc, productID, 1, "7.00")
	received := createPending(t, svc, productID, 2, "7.00")
	_, err := svc.Receive(context.Background(), received.ID, "warehouse")
	require.NoError(t, err)

	status := purchase.StatusPending
	orders, err := svc.List(context.Background(), purchase.ListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, pending.ID, orders[0].ID)

	bad := purchase.Status("SHIPPED")
	_, err = svc.List(context.Background(), purchase.ListFilter{Status: &bad})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
}
