package domain

import (
	"time"

	"bizhub/backend/internal/money"
)

type CatalogItem struct {
	ID        int    `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	UnitPrice int64  `json:"unit_price" yaml:"unit_price"`
	Stock     int    `json:"stock" yaml:"stock"`
	Unit      string `json:"unit" yaml:"unit"`
}

// CartLine copies name, price and unit from the catalog at add time.
type CartLine struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// Subtotal is price×quantity, clamped to the int64 range.
func (l CartLine) Subtotal() int64 {
	v, ok := l.CheckedSubtotal()
	return money.Saturate(v, ok, (l.Price < 0) != (l.Quantity < 0))
}

// CheckedSubtotal reports false when price×quantity overflows.
func (l CartLine) CheckedSubtotal() (int64, bool) {
	return money.Mul(l.Price, int64(l.Quantity))
}

type Receipt struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	Items     []CartLine `json:"items"`
	Total     int64      `json:"total"`
	StaffName string     `json:"staff_name"`
	IssuedAt  time.Time  `json:"issued_at"`
}

type InventoryItem struct {
	ID            int    `json:"id" yaml:"id" csv:"id"`
	Name          string `json:"name" yaml:"name" csv:"name"`
	CurrentStock  int    `json:"current_stock" yaml:"current_stock" csv:"current_stock"`
	MinStock      int    `json:"min_stock" yaml:"min_stock" csv:"min_stock"`
	UnitPrice     int64  `json:"unit_price" yaml:"unit_price" csv:"unit_price"`
	Unit          string `json:"unit" yaml:"unit" csv:"unit"`
	LastRestocked string `json:"last_restocked" yaml:"last_restocked" csv:"last_restocked"`
	Supplier      string `json:"supplier" yaml:"supplier" csv:"supplier"`
}

type StockStatus string

const (
	StockCritical StockStatus = "critical"
	StockLow      StockStatus = "low"
	StockGood     StockStatus = "good"
)

type InventoryRow struct {
	InventoryItem
	Status StockStatus `json:"status" csv:"status"`
}

type InventorySummary struct {
	TotalProducts  int   `json:"total_products"`
	NeedsAttention int   `json:"needs_attention"`
	TotalValue     int64 `json:"total_value"`
}

type InventoryListResponse struct {
	Items   []InventoryRow   `json:"items"`
	Summary InventorySummary `json:"summary"`
}

type NewInventoryProduct struct {
	Name         string
	CurrentStock int
	MinStock     int
	UnitPrice    int64
	Unit         string
	Supplier     string
}

const (
	SalesViewEntering     = "entering"
	SalesViewReceiptShown = "receipt_shown"
)

type SalesSessionResponse struct {
	View      string     `json:"view"`
	Lines     []CartLine `json:"lines"`
	LineCount int        `json:"line_count"`
	Total     int64      `json:"total"`
	Receipt   *Receipt   `json:"receipt,omitempty"`
}

type ReceiptPrintResponse struct {
	ReceiptID    string `json:"receipt_id"`
	PreviewText  string `json:"preview_text"`
	EscposBase64 string `json:"escpos_base64"`
	FileName     string `json:"file_name"`
}

type BusinessProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

type LoginRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	SessionID   string `json:"session_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	Redirect    string `json:"redirect"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	SessionID string
	Role      string
}

type MonthlySales struct {
	Month string `json:"month" yaml:"month"`
	Sales int64  `json:"sales" yaml:"sales"`
}

type ProductShare struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
	Color string `json:"color" yaml:"color"`
}

type LowStockItem struct {
	Name    string `json:"name" yaml:"name"`
	Current int    `json:"current" yaml:"current"`
	Minimum int    `json:"minimum" yaml:"minimum"`
	Unit    string `json:"unit" yaml:"unit"`
}

// DashboardFigures is the raw sample data behind the owner dashboard.
type DashboardFigures struct {
	SalesToday         int64          `json:"sales_today" yaml:"sales_today"`
	SalesYesterday     int64          `json:"sales_yesterday" yaml:"sales_yesterday"`
	ItemsSoldToday     int64          `json:"items_sold_today" yaml:"items_sold_today"`
	ItemsSoldYesterday int64          `json:"items_sold_yesterday" yaml:"items_sold_yesterday"`
	TotalProducts      int            `json:"total_products" yaml:"total_products"`
	SalesTrend         []MonthlySales `json:"sales_trend" yaml:"sales_trend"`
	TopProducts        []ProductShare `json:"top_products" yaml:"top_products"`
	LowStock           []LowStockItem `json:"low_stock" yaml:"low_stock"`
}

type StatCard struct {
	Title         string  `json:"title"`
	Value         string  `json:"value"`
	ChangePercent *string `json:"change_percent,omitempty"`
	Note          string  `json:"note"`
}

type LowStockAlert struct {
	LowStockItem
	Status StockStatus `json:"status"`
}

type DashboardResponse struct {
	Stats       []StatCard      `json:"stats"`
	SalesTrend  []MonthlySales  `json:"sales_trend"`
	TopProducts []ProductShare  `json:"top_products"`
	LowStock    []LowStockAlert `json:"low_stock"`
}

// Request bodies below carry loosely typed numbers because the screens submit
// raw form values. The service coerces them.

type AddCartLineRequest struct {
	ItemID   any `json:"item_id"`
	Quantity any `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity any `json:"quantity"`
}

type AddProductRequest struct {
	Name         string `json:"name"`
	CurrentStock any    `json:"current_stock"`
	MinStock     any    `json:"min_stock"`
	UnitPrice    any    `json:"unit_price"`
	Unit         string `json:"unit"`
	Supplier     string `json:"supplier"`
}

type UpdateStockRequest struct {
	Stock any `json:"stock"`
}

type UpdateStockResponse struct {
	Item    InventoryRow `json:"item"`
	Applied bool         `json:"applied"`
}
