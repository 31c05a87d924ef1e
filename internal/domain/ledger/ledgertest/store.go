// Package ledgertest provides in-memory fakes for the stock store,
// the movement log and the transaction manager. Transactions are
// serialized by a single mutex and rolled back by snapshot, which is
// enough to exercise every atomicity and interleaving property of the
// coordinator without a database.
package ledgertest

import (
	"context"
	"sort"
	"sync"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
)

// Store implements ledger.StockStore, ledger.Log and tx.Manager in
// memory.
type Store struct {
	mu sync.Mutex

	products  map[id.ID]*ledger.StockRow
	movements map[id.ID]*ledger.Movement
	order     []id.ID // append order of movements

	// FailAppend, when set, makes the next Append return this error.
	// Used to verify rollback on partial-write failure.
	FailAppend error

	// FailAdjust, when set, makes the next AdjustQuantity fail.
	FailAdjust error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		products:  make(map[id.ID]*ledger.StockRow),
		movements: make(map[id.ID]*ledger.Movement),
	}
}

// AddProduct seeds a product counter.
func (s *Store) AddProduct(productID id.ID, quantity int64, price, cost types.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[productID] = &ledger.StockRow{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: price,
		CostPrice: cost,
	}
}

// Quantity returns the current counter value for assertions.
func (s *Store) Quantity(productID id.ID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.products[productID]; ok {
		return row.Quantity
	}
	return 0
}

// Movements returns all ledger entries in append order.
func (s *Store) Movements() []ledger.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.Movement, 0, len(s.order))
	for _, mid := range s.order {
		out = append(out, *s.movements[mid])
	}
	return out
}

// --- tx.Manager ---

type txKey struct{}

// RunInTransaction serializes transactions with a mutex and restores
// a snapshot when fn fails. Nested calls reuse the open transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	ctx = context.WithValue(ctx, txKey{}, struct{}{})
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// lockOutsideTx takes the store mutex for reads issued outside any
// transaction; inside a transaction the mutex is already held.
func (s *Store) lockOutsideTx(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	products  map[id.ID]ledger.StockRow
	movements map[id.ID]ledger.Movement
	order     []id.ID
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:  make(map[id.ID]ledger.StockRow, len(s.products)),
		movements: make(map[id.ID]ledger.Movement, len(s.movements)),
		order:     append([]id.ID(nil), s.order...),
	}
	for pid, row := range s.products {
		snap.products[pid] = *row
	}
	for mid, m := range s.movements {
		snap.movements[mid] = *m
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = make(map[id.ID]*ledger.StockRow, len(snap.products))
	for pid, row := range snap.products {
		r := row
		s.products[pid] = &r
	}
	s.movements = make(map[id.ID]*ledger.Movement, len(snap.movements))
	for mid, m := range snap.movements {
		mv := m
		s.movements[mid] = &mv
	}
	s.order = snap.order
}

// --- ledger.StockStore ---

// LockQuantity returns the counter row. The transaction mutex already
// serializes access, which models the database row lock.
func (s *Store) LockQuantity(ctx context.Context, productID id.ID) (ledger.StockRow, error) {
	row, ok := s.products[productID]
	if !ok {
		return ledger.StockRow{}, apperror.NewNotFound("product", productID.String())
	}
	return *row, nil
}

// AdjustQuantity applies the delta and returns the new quantity.
func (s *Store) AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	if s.FailAdjust != nil {
		err := s.FailAdjust
		s.FailAdjust = nil
		return 0, err
	}
	row, ok := s.products[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID.String())
	}
	row.Quantity += delta
	return row.Quantity, nil
}

// --- ledger.Log ---

// Append stores a movement entry.
func (s *Store) Append(ctx context.Context, m *ledger.Movement) error {
	if s.FailAppend != nil {
		err := s.FailAppend
		s.FailAppend = nil
		return err
	}
	cp := *m
	s.movements[m.ID] = &cp
	s.order = append(s.order, m.ID)
	return nil
}

// GetByID retrieves a movement entry.
func (s *Store) GetByID(ctx context.Context, movementID id.ID) (*ledger.Movement, error) {
	defer s.lockOutsideTx(ctx)()
	m, ok := s.movements[movementID]
	if !ok {
		return nil, apperror.NewNotFound("movement", movementID.String())
	}
	cp := *m
	return &cp, nil
}

// MarkReversed stamps the original entry; returns false when it has
// already been reversed.
func (s *Store) MarkReversed(ctx context.Context, originalID, reversalID id.ID) (bool, error) {
	m, ok := s.movements[originalID]
	if !ok {
		return false, apperror.NewNotFound("movement", originalID.String())
	}
	if m.ReversedBy != nil {
		return false, nil
	}
	rid := reversalID
	m.ReversedBy = &rid
	return true, nil
}

// List returns movements matching the filter, most recent first.
func (s *Store) List(ctx context.Context, filter ledger.Filter) ([]ledger.Movement, error) {
	defer s.lockOutsideTx(ctx)()
	s_ := make([]ledger.Movement, 0, len(s.order))
	for _, mid := range s.order {
		m := *s.movements[mid]
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		s_ = append(s_, m)
	}
	sort.SliceStable(s_, func(i, j int) bool {
		return s_[i].CreatedAt.After(s_[j].CreatedAt)
	})
	if filter.Limit > 0 && len(s_) > filter.Limit {
		s_ = s_[:filter.Limit]
	}
	return s_, nil
}
