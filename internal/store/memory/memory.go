package memory

import (
	"context"
	"fmt"
	"sync"

	"bizhub/backend/internal/domain"
	"bizhub/backend/internal/store"
)

type Store struct {
	mu        sync.RWMutex
	catalog   []domain.CatalogItem
	inventory []domain.InventoryItem
	dashboard domain.DashboardFigures
}

var _ store.Repository = (*Store)(nil)

// Seed is the data a Store is built from, either the built-in sample or a
// YAML seed file.
type Seed struct {
	Catalog   []domain.CatalogItem    `yaml:"catalog"`
	Inventory []domain.InventoryItem  `yaml:"inventory"`
	Dashboard domain.DashboardFigures `yaml:"dashboard"`
}

func New(seed Seed) (*Store, error) {
	if err := validateSeed(seed); err != nil {
		return nil, err
	}
	return &Store{
		catalog:   append([]domain.CatalogItem(nil), seed.Catalog...),
		inventory: append([]domain.InventoryItem(nil), seed.Inventory...),
		dashboard: cloneFigures(seed.Dashboard),
	}, nil
}

func NewSeeded() *Store {
	s, err := New(SampleSeed())
	if err != nil {
		panic(fmt.Sprintf("memory: built-in seed is invalid: %v", err))
	}
	return s
}

func SampleSeed() Seed {
	return Seed{
		Catalog: []domain.CatalogItem{
			{ID: 1, Name: "Rice (50kg)", UnitPrice: 45000, Stock: 25, Unit: "bag"},
			{ID: 2, Name: "Cooking Oil (5L)", UnitPrice: 8500, Stock: 40, Unit: "bottle"},
			{ID: 3, Name: "Sugar (1kg)", UnitPrice: 1200, Stock: 60, Unit: "pack"},
			{ID: 4, Name: "Flour (2kg)", UnitPrice: 2800, Stock: 35, Unit: "pack"},
			{ID: 5, Name: "Beans (1kg)", UnitPrice: 1800, Stock: 45, Unit: "pack"},
		},
		Inventory: []domain.InventoryItem{
			{ID: 1, Name: "Rice (50kg)", CurrentStock: 25, MinStock: 10, UnitPrice: 45000, Unit: "bag", LastRestocked: "2024-01-15", Supplier: "Lagos Rice Mills"},
			{ID: 2, Name: "Cooking Oil (5L)", CurrentStock: 8, MinStock: 15, UnitPrice: 8500, Unit: "bottle", LastRestocked: "2024-01-10", Supplier: "Golden Oil Ltd"},
			{ID: 3, Name: "Sugar (1kg)", CurrentStock: 12, MinStock: 20, UnitPrice: 1200, Unit: "pack", LastRestocked: "2024-01-12", Supplier: "Sweet Sugar Co"},
			{ID: 4, Name: "Flour (2kg)", CurrentStock: 35, MinStock: 15, UnitPrice: 2800, Unit: "pack", LastRestocked: "2024-01-14", Supplier: "Flour Mills Nigeria"},
			{ID: 5, Name: "Beans (1kg)", CurrentStock: 45, MinStock: 20, UnitPrice: 1800, Unit: "pack", LastRestocked: "2024-01-13", Supplier: "Northern Beans"},
		},
		Dashboard: domain.DashboardFigures{
			SalesToday:         45230,
			SalesYesterday:     40384,
			ItemsSoldToday:     127,
			ItemsSoldYesterday: 118,
			TotalProducts:      156,
			SalesTrend: []domain.MonthlySales{
				{Month: "Jan", Sales: 45000},
				{Month: "Feb", Sales: 52000},
				{Month: "Mar", Sales: 48000},
				{Month: "Apr", Sales: 61000},
				{Month: "May", Sales: 55000},
				{Month: "Jun", Sales: 67000},
			},
			TopProducts: []domain.ProductShare{
				{Name: "Rice (50kg)", Value: 35, Color: "#3b82f6"},
				{Name: "Cooking Oil", Value: 25, Color: "#10b981"},
				{Name: "Sugar", Value: 20, Color: "#f59e0b"},
				{Name: "Flour", Value: 20, Color: "#ef4444"},
			},
			LowStock: []domain.LowStockItem{
				{Name: "Rice (50kg)", Current: 5, Minimum: 10, Unit: "bags"},
				{Name: "Cooking Oil (5L)", Current: 8, Minimum: 15, Unit: "bottles"},
				{Name: "Sugar (1kg)", Current: 12, Minimum: 20, Unit: "packs"},
			},
		},
	}
}

func (s *Store) Catalog(_ context.Context) ([]domain.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CatalogItem(nil), s.catalog...), nil
}

func (s *Store) InitialInventory(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.InventoryItem(nil), s.inventory...), nil
}

func (s *Store) DashboardFigures(_ context.Context) (domain.DashboardFigures, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFigures(s.dashboard), nil
}

func validateSeed(seed Seed) error {
	seen := map[int]bool{}
	for _, item := range seed.Catalog {
		if item.ID <= 0 || item.Name == "" {
			return fmt.Errorf("catalog item %d: id and name are required: %w", item.ID, store.ErrInvalidInput)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("catalog item %d: negative price: %w", item.ID, store.ErrInvalidInput)
		}
		if seen[item.ID] {
			return fmt.Errorf("catalog item %d: duplicate id: %w", item.ID, store.ErrInvalidInput)
		}
		seen[item.ID] = true
	}
	for i, item := range seed.Inventory {
		if item.ID != i+1 {
			return fmt.Errorf("inventory item %q: ids must run 1..n in order: %w", item.Name, store.ErrInvalidInput)
		}
	}
	return nil
}

func cloneFigures(f domain.DashboardFigures) domain.DashboardFigures {
	f.SalesTrend = append([]domain.MonthlySales(nil), f.SalesTrend...)
	f.TopProducts = append([]domain.ProductShare(nil), f.TopProducts...)
	f.LowStock = append([]domain.LowStockItem(nil), f.LowStock...)
	return f
}
