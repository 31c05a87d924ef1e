package ledger_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/ledger"
)

func TestListQuery_Filters(t *testing.T) {
	repo := NewRepo(nil)
	productID := id.New()
	kind := ledger.KindSale
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   ledger.Filter
		wantSQL  []string
		wantArgs int
	}{
		{
			name:     "no filter",
			filter:   ledger.Filter{},
			wantSQL:  []string{"FROM stock_movements m", "ORDER BY m.created_at DESC, m.id DESC"},
			wantArgs: 0,
		},
		{
			name:     "by product",
			filter:   ledger.Filter{ProductID: &productID},
			wantSQL:  []string{"m.product_id = $1"},
			wantArgs: 1,
		},
		{
			name:     "by kind and date with paging",
			filter:   ledger.Filter{Kind: &kind, FromDate: &from, Limit: 50, Offset: 100},
			wantSQL:  []string{"m.kind = $1", "m.created_at >= $2", "LIMIT 50", "OFFSET 100"},
			wantArgs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}
			for _, want := range tt.wantSQL {
				if !strings.Contains(sql, want) {
					t.Errorf("SQL missing %q\ngot: %s", want, sql)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args count mismatch\nwant: %d\ngot:  %d", tt.wantArgs, len(args))
			}
		})
	}
}

func TestSelectQuery_JoinsProductName(t *testing.T) {
	repo := NewRepo(nil)
	sql, _, err := repo.selectQuery().ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.Contains(sql, "LEFT JOIN products p ON p.id = m.product_id") {
		t.Errorf("missing product join\ngot: %s", sql)
	}
}
