package inventory

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizhub/backend/internal/domain"
)

func sampleItems() []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: 1, Name: "Rice (50kg)", CurrentStock: 25, MinStock: 10, UnitPrice: 45000, Unit: "bag", LastRestocked: "2024-01-15", Supplier: "Lagos Rice Mills"},
		{ID: 2, Name: "Cooking Oil (5L)", CurrentStock: 8, MinStock: 15, UnitPrice: 8500, Unit: "bottle", LastRestocked: "2024-01-10", Supplier: "Golden Oil Ltd"},
		{ID: 3, Name: "Sugar (1kg)", CurrentStock: 12, MinStock: 20, UnitPrice: 1200, Unit: "pack", LastRestocked: "2024-01-12", Supplier: "Sweet Sugar Co"},
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		current int
		min     int
		want    domain.StockStatus
	}{
		{5, 10, domain.StockCritical},
		{10, 10, domain.StockCritical},
		{12, 10, domain.StockLow},
		{15, 10, domain.StockLow},
		{16, 10, domain.StockGood},
		{20, 10, domain.StockGood},
		{8, 15, domain.StockCritical},
		{12, 20, domain.StockCritical},
		{22, 15, domain.StockLow},
		{23, 15, domain.StockGood},
		{-3, 0, domain.StockCritical},
		{1, 0, domain.StockGood},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.current, tc.min), "classify(%d, %d)", tc.current, tc.min)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	rank := map[domain.StockStatus]int{domain.StockCritical: 0, domain.StockLow: 1, domain.StockGood: 2}
	for min := 0; min <= 30; min++ {
		prev := -1
		for current := -5; current <= 60; current++ {
			r := rank[Classify(current, min)]
			require.GreaterOrEqual(t, r, prev, "current=%d min=%d", current, min)
			prev = r
		}
	}
}

func TestAddProductAssignsNextID(t *testing.T) {
	ledger := NewLedger(sampleItems())
	today := time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)

	next, item := ledger.AddProduct(domain.NewInventoryProduct{
		Name: "Salt (500g)", CurrentStock: 30, MinStock: 10, UnitPrice: 300, Unit: "pack", Supplier: "Coastal Salt",
	}, today)

	assert.Equal(t, 4, item.ID)
	assert.Equal(t, "2024-02-03", item.LastRestocked)
	assert.Len(t, next.Items, 4)
	assert.Len(t, ledger.Items, 3)
}

func TestAddProductAcceptsZeroValues(t *testing.T) {
	next, item := Ledger{}.AddProduct(domain.NewInventoryProduct{Name: "Unknown"}, time.Now())
	assert.Equal(t, 1, item.ID)
	assert.Equal(t, domain.StockCritical, Rows(next.Items)[0].Status)
}

func TestUpdateStockOverwrites(t *testing.T) {
	ledger := NewLedger(sampleItems())

	next, ok := ledger.UpdateStock(2, 40)
	require.True(t, ok)
	item, _ := next.Find(2)
	assert.Equal(t, 40, item.CurrentStock)

	original, _ := ledger.Find(2)
	assert.Equal(t, 8, original.CurrentStock)

	next, ok = next.UpdateStock(2, -4)
	require.True(t, ok)
	item, _ = next.Find(2)
	assert.Equal(t, -4, item.CurrentStock)
}

func TestUpdateStockUnknownID(t *testing.T) {
	ledger := NewLedger(sampleItems())
	next, ok := ledger.UpdateStock(9, 1)
	assert.False(t, ok)
	assert.Equal(t, ledger, next)
}

func TestSearchIgnoresCase(t *testing.T) {
	ledger := NewLedger(sampleItems())

	assert.Len(t, ledger.Search(""), 3)
	found := ledger.Search("OIL")
	require.Len(t, found, 1)
	assert.Equal(t, "Cooking Oil (5L)", found[0].Name)
	assert.Empty(t, ledger.Search("flour"))
}

func TestSummaryCoversWholeLedger(t *testing.T) {
	ledger := NewLedger(sampleItems())
	resp := ledger.List("rice")

	require.Len(t, resp.Items, 1)
	assert.Equal(t, domain.StockGood, resp.Items[0].Status)
	assert.Equal(t, 3, resp.Summary.TotalProducts)
	assert.Equal(t, 2, resp.Summary.NeedsAttention)
	assert.Equal(t, int64(25*45000+8*8500+12*1200), resp.Summary.TotalValue)
}

func TestSummaryValueClamps(t *testing.T) {
	ledger := NewLedger([]domain.InventoryItem{
		{ID: 1, Name: "Bulk", CurrentStock: math.MaxInt, MinStock: 1, UnitPrice: 45000},
		{ID: 2, Name: "Sugar (1kg)", CurrentStock: 12, MinStock: 20, UnitPrice: 1200},
	})
	assert.Equal(t, int64(math.MaxInt64), ledger.Summary().TotalValue)
}

func TestExportCSV(t *testing.T) {
	out, err := NewLedger(sampleItems()).ExportCSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,name,current_stock,min_stock,unit_price,unit,last_restocked,supplier,status", lines[0])
	assert.Equal(t, "2,Cooking Oil (5L),8,15,8500,bottle,2024-01-10,Golden Oil Ltd,critical", lines[2])
}
