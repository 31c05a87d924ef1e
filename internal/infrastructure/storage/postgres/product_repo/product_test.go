package product_repo

import (
	"strings"
	"testing"

	"github.com/sahan201/basic-inventory-management-system/internal/core/id"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/product"
)

func TestListQuery_Filters(t *testing.T) {
	repo := NewRepo(nil)
	categoryID := id.New()

	tests := []struct {
		name     string
		filter   product.ListFilter
		wantSQL  []string
		wantArgs int
	}{
		{
			name:     "search matches name and sku",
			filter:   product.ListFilter{Search: "pen"},
			wantSQL:  []string{"p.name ILIKE $1", "p.sku ILIKE $2"},
			wantArgs: 2,
		},
		{
			name:     "category filter",
			filter:   product.ListFilter{CategoryID: &categoryID},
			wantSQL:  []string{"p.category_id = $1"},
			wantArgs: 1,
		},
		{
			name:     "low stock only",
			filter:   product.ListFilter{LowStockOnly: true},
			wantSQL:  []string{"p.quantity_in_stock <= p.reorder_level"},
			wantArgs: 0,
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

func TestSelectQuery_JoinsCatalogNames(t *testing.T) {
	repo := NewRepo(nil)
	sql, _, err := repo.selectQuery().ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	for _, want := range []string{
		"LEFT JOIN categories c ON c.id = p.category_id",
		"LEFT JOIN suppliers s ON s.id = p.supplier_id",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("SQL missing %q\ngot: %s", want, sql)
		}
	}
}
