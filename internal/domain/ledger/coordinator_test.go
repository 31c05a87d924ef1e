package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger/ledgertest"
)

func newCoordinator(store *ledgertest.Store) *ledger.Coordinator {
	return ledger.NewCoordinator(store, store, store, nil)
}

func TestApplyMovement_SaleDecrementsStock(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 10, types.MustMoney("2.00"), types.MustMoney("1.20"))

	coord := newCoordinator(store)
	res, err := coord.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: productID,
		Kind:      ledger.KindSale,
		Quantity:  3,
		ActorID:   "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.NewStock)
	assert.Equal(t, int64(7), store.Quantity(productID))

	movements := store.Movements()
	require.Len(t, movements, 1)
	m := movements[0]
	assert.Equal(t, res.MovementID, m.ID)
	assert.Equal(t, ledger.KindSale, m.Kind)
	assert.Equal(t, int64(-3), m.Delta)
	assert.True(t, m.TotalAmount.Equal(types.MustMoney("6.00")),
		"total amount should be quantity x unit price, got %s", m.TotalAmount)
	assert.Equal(t, "u1", m.ActorID)
}

func TestApplyMovement_PurchaseReceiptIncrements(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 7, types.MustMoney("2.00"), types.MustMoney("1.20"))

	coord := newCoordinator(store)
	unitCost := types.MustMoney("1.10")
	res, err := coord.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: productID,
		Kind:      ledger.KindPurchaseReceipt,
		Quantity:  20,
		UnitPrice: &unitCost,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(27), res.NewStock)

	movements := store.Movements()
	require.Len(t, movements, 1)
	assert.Equal(t, int64(20), movements[0].Delta)
	assert.True(t, movements[0].UnitPrice.Equal(unitCost))
}

func TestApplyMovement_Boundary(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 5, types.MustMoney("1.00"), types.ZeroMoney())
	coord := newCoordinator(store)
	ctx := context.Background()

	// Selling exactly the stock on hand drives it to zero.
	res, err := coord.ApplyMovement(ctx, ledger.ApplyInput{
		ProductID: productID, Kind: ledger.KindSale, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.NewStock)

	// One more unit is rejected and nothing changes.
	_, err = coord.ApplyMovement(ctx, ledger.ApplyInput{
		ProductID: productID, Kind: ledger.KindSale, Quantity: 1,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(0), appErr.Details["available"])
	assert.Equal(t, int64(0), store.Quantity(productID))
	assert.Len(t, store.Movements(), 1)
}

func TestApplyMovement_UnknownProduct(t *testing.T) {
	store := ledgertest.New()
	coord := newCoordinator(store)

	_, err := coord.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: id.New(), Kind: ledger.KindSale, Quantity: 1,
	})
	assert.True(t, apperror.IsNotFound(err), "expected NotFound, got %v", err)
}

func TestApplyMovement_ValidatesInput(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 10, types.MustMoney("1.00"), types.ZeroMoney())
	coord := newCoordinator(store)

	tests := []struct {
		name  string
		input ledger.ApplyInput
	}{
		{"zero quantity", ledger.ApplyInput{ProductID: productID, Kind: ledger.KindSale, Quantity: 0}},
		{"negative quantity", ledger.ApplyInput{ProductID: productID, Kind: ledger.KindSale, Quantity: -4}},
		{"unknown kind", ledger.ApplyInput{ProductID: productID, Kind: "ADJUSTMENT", Quantity: 1}},
		{"nil product", ledger.ApplyInput{Kind: ledger.KindSale, Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coord.ApplyMovement(context.Background(), tt.input)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, int64(10), store.Quantity(productID))
		})
	}
}

func TestApplyMovement_RollbackOnAppendFailure(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 10, types.MustMoney("1.00"), types.ZeroMoney())
	store.FailAppend = assert.AnError

	coord := newCoordinator(store)
	_, err := coord.ApplyMovement(context.Background(), ledger.ApplyInput{
		ProductID: productID, Kind: ledger.KindSale, Quantity: 2,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsStorageFailure(err), "expected StorageFailure, got %v", err)

	// Neither the counter nor the ledger reflects a partial write.
	assert.Equal(t, int64(10), store.Quantity(productID))
	assert.Empty(t, store.Movements())
}

func TestReverseMovement_RoundTrip(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 10, types.MustMoney("2.50"), types.ZeroMoney())
	coord := newCoordinator(store)
	ctx := context.Background()

	sale, err := coord.ApplyMovement(ctx, ledger.ApplyInput{
		ProductID: productID, Kind: ledger.KindSale, Quantity: 5, ActorID: "u1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), sale.NewStock)

	res, err := coord.ReverseMovement(ctx, sale.MovementID, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.NewStock, "stock restored to the pre-sale value exactly")

	movements := store.Movements()
	require.Len(t, movements, 2)
	original, reversal := movements[0], movements[1]
	require.NotNil(t, original.ReversedBy)
	assert.Equal(t, reversal.ID, *original.ReversedBy)
	require.NotNil(t, reversal.ReversalOf)
	assert.Equal(t, original.ID, *reversal.ReversalOf)
	assert.True(t, reversal.TotalAmount.Equal(original.TotalAmount.Neg()),
		"reversal carries the negated amount")

	// Reversal is idempotent per original movement: the second attempt
	// is rejected and leaves stock unchanged.
	_, err = coord.ReverseMovement(ctx, sale.MovementID, "u2")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeAlreadyReversed))
	assert.Equal(t, int64(10), store.Quantity(productID))
	assert.Len(t, store.Movements(), 2)
}

func TestReverseMovement_NotFound(t *testing.T) {
	store := ledgertest.New()
	coord := newCoordinator(store)

	_, err := coord.ReverseMovement(context.Background(), id.New(), "u1")
	assert.True(t, apperror.IsNotFound(err))
}

func TestReverseMovement_OnlySales(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 0, types.MustMoney("1.00"), types.ZeroMoney())
	coord := newCoordinator(store)
	ctx := context.Background()

	receipt, err := coord.ApplyMovement(ctx, ledger.ApplyInput{
		ProductID: productID, Kind: ledger.KindPurchaseReceipt, Quantity: 4,
	})
	require.NoError(t, err)

	_, err = coord.ReverseMovement(ctx, receipt.MovementID, "u1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, int64(4), store.Quantity(productID))
}

func TestConcurrentSales_ExactlyOneSucceeds(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	store.AddProduct(productID, 10, types.MustMoney("1.00"), types.ZeroMoney())
	coord := newCoordinator(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.ApplyMovement(context.Background(), ledger.ApplyInput{
				ProductID: productID, Kind: ledger.KindSale, Quantity: 6,
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.IsInsufficientStock(err):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one concurrent sale succeeds")
	assert.Equal(t, 1, insufficient, "the other observes the committed decrement")
	assert.Equal(t, int64(4), store.Quantity(productID))
	assert.Len(t, store.Movements(), 1)
}

// The ledger/counter consistency invariant: after any sequence of
// successful movements, initial stock plus the sum of applied deltas
// equals the counter.
func TestLedgerCounterConsistency(t *testing.T) {
	store := ledgertest.New()
	productID := id.New()
	const initial = int64(50)
	store.AddProduct(productID, initial, types.MustMoney("3.00"), types.MustMoney("2.00"))
	coord := newCoordinator(store)
	ctx := context.Background()

	steps := []ledger.ApplyInput{
		{ProductID: productID, Kind: ledger.KindSale, Quantity: 12},
		{ProductID: productID, Kind: ledger.KindPurchaseReceipt, Quantity: 30},
		{ProductID: productID, Kind: ledger.KindSale, Quantity: 25},
		{ProductID: productID, Kind: ledger.KindSale, Quantity: 40},
	}
	var lastSale id.ID
	for _, in := range steps {
		res, err := coord.ApplyMovement(ctx, in)
		require.NoError(t, err)
		if in.Kind == ledger.KindSale {
			lastSale = res.MovementID
		}
	}
	_, err := coord.ReverseMovement(ctx, lastSale, "u1")
	require.NoError(t, err)

	var sum int64
	for _, m := range store.Movements() {
		sum += m.Delta
	}
	assert.Equal(t, initial+sum, store.Quantity(productID))
}
