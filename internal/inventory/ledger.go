package inventory

import (
	"strings"
	"time"

	"bizhub/backend/internal/domain"
	"bizhub/backend/internal/money"
)

const isoDate = "2006-01-02"

// Ledger is the inventory table for one session. Like the sales cart it is a
// value: every mutation returns a new Ledger.
type Ledger struct {
	Items []domain.InventoryItem `json:"items"`
}

func NewLedger(items []domain.InventoryItem) Ledger {
	return Ledger{Items: cloneItems(items)}
}

// AddProduct appends a product with id count+1 and today's restock date.
func (l Ledger) AddProduct(p domain.NewInventoryProduct, today time.Time) (Ledger, domain.InventoryItem) {
	item := domain.InventoryItem{
		ID:            len(l.Items) + 1,
		Name:          p.Name,
		CurrentStock:  p.CurrentStock,
		MinStock:      p.MinStock,
		UnitPrice:     p.UnitPrice,
		Unit:          p.Unit,
		LastRestocked: today.Format(isoDate),
		Supplier:      p.Supplier,
	}
	next := Ledger{Items: append(cloneItems(l.Items), item)}
	return next, item
}

// UpdateStock overwrites the stock of id. Negative values are stored as given.
// The bool is false when id is not in the ledger.
func (l Ledger) UpdateStock(id int, stock int) (Ledger, bool) {
	next := Ledger{Items: cloneItems(l.Items)}
	for i := range next.Items {
		if next.Items[i].ID == id {
			next.Items[i].CurrentStock = stock
			return next, true
		}
	}
	return l, false
}

func (l Ledger) Find(id int) (domain.InventoryItem, bool) {
	for _, item := range l.Items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.InventoryItem{}, false
}

// Search keeps items whose name contains q, ignoring case. An empty q
// matches everything.
func (l Ledger) Search(q string) []domain.InventoryItem {
	needle := strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.InventoryItem, 0, len(l.Items))
	for _, item := range l.Items {
		if needle == "" || strings.Contains(strings.ToLower(item.Name), needle) {
			out = append(out, item)
		}
	}
	return out
}

func Rows(items []domain.InventoryItem) []domain.InventoryRow {
	rows := make([]domain.InventoryRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, domain.InventoryRow{
			InventoryItem: item,
			Status:        Classify(item.CurrentStock, item.MinStock),
		})
	}
	return rows
}

// Summary covers the whole ledger, not a search result. TotalValue is clamped
// to the int64 range.
func (l Ledger) Summary() domain.InventorySummary {
	summary := domain.InventorySummary{TotalProducts: len(l.Items)}
	for _, item := range l.Items {
		if Classify(item.CurrentStock, item.MinStock) != domain.StockGood {
			summary.NeedsAttention++
		}
		value, ok := money.Mul(int64(item.CurrentStock), item.UnitPrice)
		value = money.Saturate(value, ok, (item.CurrentStock < 0) != (item.UnitPrice < 0))
		total, ok := money.Add(summary.TotalValue, value)
		summary.TotalValue = money.Saturate(total, ok, value < 0)
	}
	return summary
}

func (l Ledger) List(q string) domain.InventoryListResponse {
	return domain.InventoryListResponse{
		Items:   Rows(l.Search(q)),
		Summary: l.Summary(),
	}
}

func cloneItems(items []domain.InventoryItem) []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(items))
	copy(out, items)
	return out
}
