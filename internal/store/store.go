package store

import (
	"context"
	"errors"

	"bizhub/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository serves the seed data every new session starts from. Callers get
// copies and may modify them freely.
type Repository interface {
	Catalog(ctx context.Context) ([]domain.CatalogItem, error)
	InitialInventory(ctx context.Context) ([]domain.InventoryItem, error)
	DashboardFigures(ctx context.Context) (domain.DashboardFigures, error)
}
