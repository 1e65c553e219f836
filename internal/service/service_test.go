package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"bizhub/backend/internal/domain"
	"bizhub/backend/internal/pos"
	"bizhub/backend/internal/session"
	"bizhub/backend/internal/store"
	"bizhub/backend/internal/store/memory"
)

var testNow = time.Date(2024, time.January, 15, 13, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return newTestServiceAt(t, func() time.Time { return testNow })
}

// newTestServiceAt wires the service and its session store to the same clock.
func newTestServiceAt(t *testing.T, now func() time.Time) *Service {
	t.Helper()
	lagos, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		lagos = time.FixedZone("WAT", 3600)
	}
	return New(memory.NewSeeded(), session.NewMemoryStore(session.WithNow(now)), Options{
		Profile:    domain.BusinessProfile{Name: "Business Name", Address: "123 Business Street, Lagos", Phone: "+234 xxx xxx xxxx"},
		Location:   lagos,
		SessionTTL: time.Hour,
		Clock:      pos.ClockFunc(now),
	})
}

func loginAs(t *testing.T, svc *Service, role string) context.Context {
	t.Helper()
	resp, err := svc.Login(context.Background(), domain.LoginRequest{Role: role, Username: "ada", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return WithActor(context.Background(), domain.Actor{SessionID: resp.SessionID, Role: resp.Role})
}

func TestLoginRoutesByRole(t *testing.T) {
	svc := newTestService(t)

	owner, err := svc.Login(context.Background(), domain.LoginRequest{Role: "owner", Username: "ada", Password: "x"})
	if err != nil {
		t.Fatalf("owner login failed: %v", err)
	}
	if owner.Redirect != "/dashboard" || owner.DisplayName != "Business Owner" {
		t.Fatalf("unexpected owner login response: %+v", owner)
	}

	staff, err := svc.Login(context.Background(), domain.LoginRequest{Role: "staff", Username: "bola", Password: "x"})
	if err != nil {
		t.Fatalf("staff login failed: %v", err)
	}
	if staff.Redirect != "/sales" || staff.DisplayName != "Sales Staff" {
		t.Fatalf("unexpected staff login response: %+v", staff)
	}
	if staff.SessionID == owner.SessionID {
		t.Fatalf("expected a fresh session per login")
	}
}

func TestSessionLivesForTTL(t *testing.T) {
	now := testNow
	svc := newTestServiceAt(t, func() time.Time { return now })
	ctx := loginAs(t, svc, "staff")

	now = testNow.Add(59 * time.Minute)
	if _, err := svc.SalesSession(ctx); err != nil {
		t.Fatalf("session should still be live: %v", err)
	}

	now = testNow.Add(time.Hour)
	if _, err := svc.SalesSession(ctx); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after ttl, got %v", err)
	}
}

func TestLoginRejectsIncompleteForm(t *testing.T) {
	svc := newTestService(t)
	cases := []domain.LoginRequest{
		{Role: "", Username: "ada", Password: "x"},
		{Role: "manager", Username: "ada", Password: "x"},
		{Role: "staff", Username: " ", Password: "x"},
		{Role: "staff", Username: "ada", Password: ""},
	}
	for _, req := range cases {
		if _, err := svc.Login(context.Background(), req); !errors.Is(err, store.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", req, err)
		}
	}
}

func TestSaleFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := loginAs(t, svc, domain.RoleStaff)

	if _, err := svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(1), Quantity: "2"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err := svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: "1", Quantity: float64(3)})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if view.LineCount != 1 || view.Total != 225000 {
		t.Fatalf("expected one line totalling 225000, got %+v", view)
	}

	view, err = svc.Checkout(ctx)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if view.View != domain.SalesViewReceiptShown || view.Receipt == nil {
		t.Fatalf("expected receipt view, got %+v", view)
	}
	if view.Receipt.Total != 225000 || view.Receipt.StaffName != "Sales Staff" {
		t.Fatalf("unexpected receipt: %+v", view.Receipt)
	}
	if view.Receipt.Time != "2:30:00 PM" {
		t.Fatalf("expected receipt time in business zone, got %s", view.Receipt.Time)
	}
	if view.LineCount != 0 {
		t.Fatalf("expected cart cleared after sale")
	}

	printed, err := svc.PrintReceipt(ctx)
	if err != nil {
		t.Fatalf("print failed: %v", err)
	}
	if !strings.Contains(printed.PreviewText, "123 Business Street, Lagos") || printed.ReceiptID != view.Receipt.ID {
		t.Fatalf("unexpected print output: %+v", printed)
	}

	view, err = svc.DismissReceipt(ctx)
	if err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	if view.View != domain.SalesViewEntering || view.Receipt != nil {
		t.Fatalf("expected entering view, got %+v", view)
	}
	if _, err := svc.PrintReceipt(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found without a receipt, got %v", err)
	}
}

func TestAddToCartCoercesQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := loginAs(t, svc, domain.RoleStaff)

	for _, raw := range []any{nil, "", "abc", float64(0), "-4"} {
		if _, err := svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(3), Quantity: raw}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	view, _ := svc.SalesSession(ctx)
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 5 {
		t.Fatalf("expected each bad quantity to count as 1, got %+v", view.Lines)
	}

	view, _ = svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: "999", Quantity: float64(1)})
	if view.LineCount != 1 {
		t.Fatalf("expected unknown item to be ignored")
	}
	view, _ = svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: "rice", Quantity: float64(1)})
	if view.LineCount != 1 {
		t.Fatalf("expected non-numeric item id to be ignored")
	}
}

func TestAddToCartRejectsOverflowingQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := loginAs(t, svc, domain.RoleStaff)

	for _, raw := range []any{"9223372036854775807", float64(9223372036854775807), "1e30"} {
		view, err := svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(2), Quantity: raw})
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if view.LineCount != 0 || view.Total != 0 {
			t.Fatalf("expected overflowing quantity %v to be ignored, got %+v", raw, view)
		}
	}

	_, _ = svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(2), Quantity: float64(3)})
	view, _ := svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(2), Quantity: "9223372036854775807"})
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 3 || view.Total != 25500 {
		t.Fatalf("expected cart to keep 3 bottles, got %+v", view)
	}
}

func TestParseIntClampsLargeNumbers(t *testing.T) {
	cases := []struct {
		raw  any
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"010", 10, true},
		{"2.9", 2, true},
		{float64(1e30), math.MaxInt, true},
		{"-1e30", math.MinInt, true},
		{math.NaN(), 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseInt(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseInt(%v) = %d, %v, want %d, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSetQuantityAndRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := loginAs(t, svc, domain.RoleStaff)
	_, _ = svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(2), Quantity: float64(1)})
	_, _ = svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(4), Quantity: float64(1)})

	view, _ := svc.SetCartQuantity(ctx, 2, domain.SetQuantityRequest{Quantity: "oops"})
	if view.Lines[0].Quantity != 1 {
		t.Fatalf("expected non-numeric quantity to be ignored")
	}
	view, _ = svc.SetCartQuantity(ctx, 2, domain.SetQuantityRequest{Quantity: float64(4)})
	if view.Lines[0].Quantity != 4 || view.Total != 4*8500+2800 {
		t.Fatalf("unexpected cart after set: %+v", view)
	}
	view, _ = svc.SetCartQuantity(ctx, 2, domain.SetQuantityRequest{Quantity: float64(0)})
	if view.LineCount != 1 || view.Lines[0].ID != 4 {
		t.Fatalf("expected zero quantity to remove the line: %+v", view)
	}
	view, _ = svc.RemoveCartLine(ctx, 4)
	if view.LineCount != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestCheckoutWhileReceiptShownIsNoop(t *testing.T) {
	svc := newTestService(t)
	ctx := loginAs(t, svc, domain.RoleStaff)
	_, _ = svc.AddToCart(ctx, domain.AddCartLineRequest{ItemID: float64(1), Quantity: float64(1)})

	first, _ := svc.Checkout(ctx)
	second, err := svc.Checkout(ctx)
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if second.Receipt == nil || second.Receipt.ID != first.Receipt.ID {
		t.Fatalf("expected the shown receipt to remain")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newTestService(t)
	a := loginAs(t, svc, domain.RoleStaff)
	b := loginAs(t, svc, domain.RoleOwner)

	_, _ = svc.AddToCart(a, domain.AddCartLineRequest{ItemID: float64(1), Quantity: float64(1)})
	_, _ = svc.UpdateStock(a, 1, domain.UpdateStockRequest{Stock: "3"})

	view, _ := svc.SalesSession(b)
	if view.LineCount != 0 {
		t.Fatalf("expected session b cart to be empty")
	}
	list, _ := svc.ListInventory(b, "")
	if list.Items[0].CurrentStock != 25 {
		t.Fatalf("expected session b inventory untouched, got %d", list.Items[0].CurrentStock)
	}
}

func TestInventoryOperations(t *testing.T) {
	svc := newTestService(t)
	ctx := loginAs(t, svc, domain.RoleOwner)

	list, err := svc.ListInventory(ctx, "SUGAR")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Status != domain.StockCritical {
		t.Fatalf("unexpected search result: %+v", list.Items)
	}
	if list.Summary.TotalProducts != 5 || list.Summary.NeedsAttention != 2 {
		t.Fatalf("unexpected summary: %+v", list.Summary)
	}

	row, err := svc.AddProduct(ctx, domain.AddProductRequest{
		Name: " Salt (500g) ", CurrentStock: "30", MinStock: "abc", UnitPrice: float64(300), Unit: "pack",
	})
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	if row.ID != 6 || row.Name != "Salt (500g)" || row.MinStock != 0 || row.LastRestocked != "2024-01-15" {
		t.Fatalf("unexpected product: %+v", row)
	}

	updated, err := svc.UpdateStock(ctx, 2, domain.UpdateStockRequest{Stock: "40"})
	if err != nil || !updated.Applied || updated.Item.CurrentStock != 40 || updated.Item.Status != domain.StockGood {
		t.Fatalf("unexpected update: %+v %v", updated, err)
	}
	ignored, err := svc.UpdateStock(ctx, 2, domain.UpdateStockRequest{Stock: ""})
	if err != nil || ignored.Applied || ignored.Item.CurrentStock != 40 {
		t.Fatalf("expected blank stock to be ignored: %+v %v", ignored, err)
	}
	if _, err := svc.UpdateStock(ctx, 42, domain.UpdateStockRequest{Stock: "1"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	csv, err := svc.ExportInventoryCSV(ctx)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(string(csv), "Salt (500g)") {
		t.Fatalf("expected new product in export")
	}
}

func TestLogoutEndsSession(t *testing.T) {
	svc := newTestService(t)
	ctx := loginAs(t, svc, domain.RoleStaff)

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.SalesSession(ctx); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if _, err := svc.SalesSession(context.Background()); !errors.Is(err, ErrNoActor) {
		t.Fatalf("expected no actor, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	svc := newTestService(t)
	resp, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(resp.Stats) != 4 || resp.Stats[0].Value != "₦45,230" {
		t.Fatalf("unexpected stats: %+v", resp.Stats)
	}
	if len(resp.SalesTrend) != 6 || len(resp.TopProducts) != 4 || len(resp.LowStock) != 3 {
		t.Fatalf("unexpected dashboard series: %+v", resp)
	}
}
