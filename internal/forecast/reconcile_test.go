package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nebulaops/backend/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func sales(sku, date string, n int) []domain.SaleRecord {
	out := make([]domain.SaleRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.SaleRecord{SKU: sku, Type: domain.SaleTypeSale, Date: day(date)})
	}
	return out
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name           string
		snap           domain.InventorySnapshot
		ledger         []domain.SaleRecord
		wantSalesSince int
		wantStock      int
	}{
		{
			name:           "sales after base date deduct",
			snap:           domain.InventorySnapshot{SKU: "A-01", BaseQty: 100, BaseDate: dayPtr("2025-01-01")},
			ledger:         sales("A-01", "2025-02-01", 10),
			wantSalesSince: 10,
			wantStock:      90,
		},
		{
			name:           "sales on the base date itself are excluded",
			snap:           domain.InventorySnapshot{SKU: "A-01", BaseQty: 100, BaseDate: dayPtr("2025-01-01")},
			ledger:         append(sales("A-01", "2025-01-01", 5), sales("A-01", "2025-01-02", 3)...),
			wantSalesSince: 3,
			wantStock:      97,
		},
		{
			name: "refunds never restore stock",
			snap: domain.InventorySnapshot{SKU: "A-01", BaseQty: 10, BaseDate: dayPtr("2025-01-01")},
			ledger: append(sales("A-01", "2025-02-01", 4),
				domain.SaleRecord{SKU: "A-01", Type: domain.SaleTypeRefund, Date: day("2025-02-02"), Amount: -20}),
			wantSalesSince: 4,
			wantStock:      6,
		},
		{
			name:           "other SKUs are ignored",
			snap:           domain.InventorySnapshot{SKU: "A-01", BaseQty: 10, BaseDate: dayPtr("2025-01-01")},
			ledger:         sales("B-02", "2025-02-01", 7),
			wantSalesSince: 0,
			wantStock:      10,
		},
		{
			name:           "never counted keeps full base quantity",
			snap:           domain.InventorySnapshot{SKU: "A-01", BaseQty: 42},
			ledger:         sales("A-01", "2025-02-01", 100),
			wantSalesSince: 0,
			wantStock:      42,
		},
		{
			name:           "stock clamps at zero",
			snap:           domain.InventorySnapshot{SKU: "A-01", BaseQty: 3, BaseDate: dayPtr("2025-01-01")},
			ledger:         sales("A-01", "2025-02-01", 8),
			wantSalesSince: 8,
			wantStock:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := Reconcile(tt.snap, tt.ledger)
			assert.Equal(t, tt.wantSalesSince, pos.SalesSince)
			assert.Equal(t, tt.wantStock, pos.CurrentStock)
			assert.GreaterOrEqual(t, pos.CurrentStock, 0)
		})
	}
}
