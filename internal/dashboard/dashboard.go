// Package dashboard turns the owner's raw sample figures into the cards and
// charts the dashboard screen renders.
package dashboard

import (
	"strconv"

	"github.com/shopspring/decimal"

	"bizhub/backend/internal/domain"
	"bizhub/backend/internal/inventory"
	"bizhub/backend/internal/money"
)

var hundred = decimal.NewFromInt(100)

func Build(f domain.DashboardFigures) domain.DashboardResponse {
	alerts := make([]domain.LowStockAlert, 0, len(f.LowStock))
	for _, item := range f.LowStock {
		alerts = append(alerts, domain.LowStockAlert{
			LowStockItem: item,
			Status:       inventory.Classify(item.Current, item.Minimum),
		})
	}

	stats := []domain.StatCard{
		{
			Title:         "Total Sales Today",
			Value:         money.Format(f.SalesToday),
			ChangePercent: ChangePercent(f.SalesToday, f.SalesYesterday),
			Note:          "from yesterday",
		},
		{
			Title:         "Items Sold",
			Value:         money.Group(f.ItemsSoldToday),
			ChangePercent: ChangePercent(f.ItemsSoldToday, f.ItemsSoldYesterday),
			Note:          "from yesterday",
		},
		{
			Title: "Low Stock Items",
			Value: strconv.Itoa(len(alerts)),
			Note:  "Requires attention",
		},
		{
			Title: "Total Products",
			Value: money.Group(int64(f.TotalProducts)),
			Note:  "Active inventory",
		},
	}

	return domain.DashboardResponse{
		Stats:       stats,
		SalesTrend:  append([]domain.MonthlySales{}, f.SalesTrend...),
		TopProducts: append([]domain.ProductShare{}, f.TopProducts...),
		LowStock:    alerts,
	}
}

// ChangePercent renders the day-over-day change as a signed whole percent,
// rounded half away from zero. It returns nil when there is no baseline.
func ChangePercent(today int64, yesterday int64) *string {
	if yesterday == 0 {
		return nil
	}
	base := decimal.NewFromInt(yesterday)
	pct := decimal.NewFromInt(today).Sub(base).Mul(hundred).Div(base).Round(0)

	out := pct.String() + "%"
	if pct.IsPositive() {
		out = "+" + out
	}
	return &out
}
