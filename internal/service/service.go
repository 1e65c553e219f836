package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bizhub/backend/internal/dashboard"
	"bizhub/backend/internal/domain"
	"bizhub/backend/internal/inventory"
	"bizhub/backend/internal/pos"
	"bizhub/backend/internal/session"
	"bizhub/backend/internal/store"
	"bizhub/backend/internal/xid"
)

// ErrNoActor is returned when a session-scoped call arrives without a
// signed-in actor on the context.
var ErrNoActor = errors.New("no active session")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// TokenIssuer signs the bearer token handed out at login.
type TokenIssuer interface {
	Issue(sessionID string, role string, expiresAt time.Time) (string, error)
}

type Options struct {
	Tokens     TokenIssuer
	Profile    domain.BusinessProfile
	Location   *time.Location
	SessionTTL time.Duration
	Clock      pos.Clock
	Logger     *zap.Logger
}

type Service struct {
	repo       store.Repository
	sessions   session.Store
	tokens     TokenIssuer
	profile    domain.BusinessProfile
	location   *time.Location
	sessionTTL time.Duration
	clock      pos.Clock
	logger     *zap.Logger
}

func New(repo store.Repository, sessions session.Store, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = pos.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		repo:       repo,
		sessions:   sessions,
		tokens:     opts.Tokens,
		profile:    opts.Profile,
		location:   opts.Location,
		sessionTTL: opts.SessionTTL,
		clock:      opts.Clock,
		logger:     opts.Logger.Named("service"),
	}
}

var roleProfiles = map[string]struct {
	displayName string
	redirect    string
}{
	domain.RoleOwner: {displayName: "Business Owner", redirect: "/dashboard"},
	domain.RoleStaff: {displayName: "Sales Staff", redirect: "/sales"},
}

// Login opens a fresh session for the chosen role. Credentials are required
// to be present but are not checked against anything.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	profile, ok := roleProfiles[role]
	if !ok {
		return domain.LoginResponse{}, fmt.Errorf("unknown role %q: %w", req.Role, store.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return domain.LoginResponse{}, fmt.Errorf("username and password are required: %w", store.ErrInvalidInput)
	}

	items, err := s.repo.InitialInventory(ctx)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	now := s.now()
	state := session.State{
		ID:        xid.New("sess"),
		Role:      role,
		StaffName: profile.displayName,
		Sales:     pos.NewSession(),
		Inventory: inventory.NewLedger(items),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	var token string
	if s.tokens != nil {
		token, err = s.tokens.Issue(state.ID, role, state.ExpiresAt)
		if err != nil {
			return domain.LoginResponse{}, fmt.Errorf("issue token: %w", err)
		}
	}
	if err := s.sessions.Create(ctx, state); err != nil {
		return domain.LoginResponse{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session opened",
		zap.String("session_id", state.ID),
		zap.String("role", role),
		zap.String("username", strings.TrimSpace(req.Username)),
	)

	return domain.LoginResponse{
		AccessToken: token,
		SessionID:   state.ID,
		Role:        role,
		DisplayName: profile.displayName,
		Redirect:    profile.redirect,
		ExpiresAt:   state.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Service) Logout(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return ErrNoActor
	}
	if err := s.sessions.Delete(ctx, actor.SessionID); err != nil {
		return err
	}
	s.logAudit(ctx, "session_closed")
	return nil
}

// CurrentSession resolves the actor's session, failing if it expired or was
// closed.
func (s *Service) CurrentSession(ctx context.Context) (session.State, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return session.State{}, ErrNoActor
	}
	return s.sessions.Get(ctx, actor.SessionID)
}

func (s *Service) Catalog(ctx context.Context) ([]domain.CatalogItem, error) {
	return s.repo.Catalog(ctx)
}

func (s *Service) SalesSession(ctx context.Context) (domain.SalesSessionResponse, error) {
	state, err := s.CurrentSession(ctx)
	if err != nil {
		return domain.SalesSessionResponse{}, err
	}
	return state.Sales.Response(), nil
}

// AddToCart adds quantity of an item. The quantity defaults to 1 when it is
// missing or not a positive number; an unknown item changes nothing.
func (s *Service) AddToCart(ctx context.Context, req domain.AddCartLineRequest) (domain.SalesSessionResponse, error) {
	catalog, err := s.repo.Catalog(ctx)
	if err != nil {
		return domain.SalesSessionResponse{}, err
	}
	itemID, ok := parseInt(req.ItemID)
	quantity := quantityOrOne(req.Quantity)

	return s.updateSales(ctx, func(sales pos.Session) pos.Session {
		if !ok {
			return sales
		}
		return sales.AddLine(pos.Catalog(catalog), itemID, quantity)
	})
}

// SetCartQuantity replaces a line's quantity. Zero or below removes the line;
// a value that is not a number is ignored.
func (s *Service) SetCartQuantity(ctx context.Context, itemID int, req domain.SetQuantityRequest) (domain.SalesSessionResponse, error) {
	quantity, ok := parseInt(req.Quantity)
	return s.updateSales(ctx, func(sales pos.Session) pos.Session {
		if !ok {
			return sales
		}
		return sales.SetQuantity(itemID, quantity)
	})
}

func (s *Service) RemoveCartLine(ctx context.Context, itemID int) (domain.SalesSessionResponse, error) {
	return s.updateSales(ctx, func(sales pos.Session) pos.Session {
		return sales.RemoveLine(itemID)
	})
}

// Checkout finalizes the cart into a receipt and switches to the receipt
// view. While a receipt is already shown it returns the session unchanged.
func (s *Service) Checkout(ctx context.Context) (domain.SalesSessionResponse, error) {
	var issued *domain.Receipt
	var emptySale bool
	resp, err := s.updateState(ctx, func(state session.State) session.State {
		issued = nil
		emptySale = state.Sales.Cart.IsEmpty()
		before := state.Sales.Receipt
		state.Sales = state.Sales.ProcessSale(state.StaffName, s)
		if state.Sales.Receipt != before {
			issued = state.Sales.Receipt
		}
		return state
	})
	if err != nil {
		return domain.SalesSessionResponse{}, err
	}
	if issued != nil {
		s.logAudit(ctx, "sale_processed",
			zap.String("receipt_id", issued.ID),
			zap.Int("lines", len(issued.Items)),
			zap.Int64("total", issued.Total),
			zap.Bool("empty_sale", emptySale),
		)
	}
	return resp, nil
}

func (s *Service) DismissReceipt(ctx context.Context) (domain.SalesSessionResponse, error) {
	return s.updateSales(ctx, func(sales pos.Session) pos.Session {
		return sales.Dismiss()
	})
}

func (s *Service) PrintReceipt(ctx context.Context) (domain.ReceiptPrintResponse, error) {
	state, err := s.CurrentSession(ctx)
	if err != nil {
		return domain.ReceiptPrintResponse{}, err
	}
	if state.Sales.Receipt == nil {
		return domain.ReceiptPrintResponse{}, fmt.Errorf("no receipt to print: %w", store.ErrNotFound)
	}
	return pos.PrintReceipt(s.profile, *state.Sales.Receipt), nil
}

func (s *Service) ListInventory(ctx context.Context, query string) (domain.InventoryListResponse, error) {
	state, err := s.CurrentSession(ctx)
	if err != nil {
		return domain.InventoryListResponse{}, err
	}
	return state.Inventory.List(query), nil
}

// AddProduct appends a product to the session's inventory. Numeric fields
// that are blank or not numbers are stored as 0.
func (s *Service) AddProduct(ctx context.Context, req domain.AddProductRequest) (domain.InventoryRow, error) {
	product := domain.NewInventoryProduct{
		Name:         strings.TrimSpace(req.Name),
		CurrentStock: intOr(req.CurrentStock, 0),
		MinStock:     intOr(req.MinStock, 0),
		UnitPrice:    int64(intOr(req.UnitPrice, 0)),
		Unit:         strings.TrimSpace(req.Unit),
		Supplier:     strings.TrimSpace(req.Supplier),
	}

	var added domain.InventoryItem
	_, err := s.updateState(ctx, func(state session.State) session.State {
		state.Inventory, added = state.Inventory.AddProduct(product, s.now())
		return state
	})
	if err != nil {
		return domain.InventoryRow{}, err
	}

	s.logAudit(ctx, "product_added",
		zap.Int("item_id", added.ID),
		zap.String("name", added.Name),
		zap.Int("stock", added.CurrentStock),
	)
	return inventory.Rows([]domain.InventoryItem{added})[0], nil
}

// UpdateStock overwrites an item's stock. A blank or non-numeric value is
// ignored and reported with Applied false. Negative values are stored.
func (s *Service) UpdateStock(ctx context.Context, itemID int, req domain.UpdateStockRequest) (domain.UpdateStockResponse, error) {
	stock, ok := parseInt(req.Stock)

	var (
		item  domain.InventoryItem
		found bool
	)
	err := s.sessionUpdate(ctx, func(state session.State) (session.State, error) {
		if ok {
			var applied bool
			state.Inventory, applied = state.Inventory.UpdateStock(itemID, stock)
			if !applied {
				return state, fmt.Errorf("inventory item %d: %w", itemID, store.ErrNotFound)
			}
		}
		item, found = state.Inventory.Find(itemID)
		if !found {
			return state, fmt.Errorf("inventory item %d: %w", itemID, store.ErrNotFound)
		}
		return state, nil
	})
	if err != nil {
		return domain.UpdateStockResponse{}, err
	}

	if ok {
		s.logAudit(ctx, "stock_updated", zap.Int("item_id", itemID), zap.Int("stock", stock))
	}
	return domain.UpdateStockResponse{
		Item:    inventory.Rows([]domain.InventoryItem{item})[0],
		Applied: ok,
	}, nil
}

func (s *Service) ExportInventoryCSV(ctx context.Context) ([]byte, error) {
	state, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	return state.Inventory.ExportCSV()
}

func (s *Service) Dashboard(ctx context.Context) (domain.DashboardResponse, error) {
	figures, err := s.repo.DashboardFigures(ctx)
	if err != nil {
		return domain.DashboardResponse{}, err
	}
	return dashboard.Build(figures), nil
}

// Now implements pos.Clock in the configured business time zone.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.location)
}

func (s *Service) updateSales(ctx context.Context, fn func(pos.Session) pos.Session) (domain.SalesSessionResponse, error) {
	return s.updateState(ctx, func(state session.State) session.State {
		state.Sales = fn(state.Sales)
		return state
	})
}

func (s *Service) updateState(ctx context.Context, fn func(session.State) session.State) (domain.SalesSessionResponse, error) {
	var resp domain.SalesSessionResponse
	err := s.sessionUpdate(ctx, func(state session.State) (session.State, error) {
		next := fn(state)
		resp = next.Sales.Response()
		return next, nil
	})
	return resp, err
}

func (s *Service) sessionUpdate(ctx context.Context, fn session.UpdateFunc) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return ErrNoActor
	}
	_, err := s.sessions.Update(ctx, actor.SessionID, fn)
	return err
}

func (s *Service) logAudit(ctx context.Context, action string, fields ...zap.Field) {
	actor, _ := ActorFromContext(ctx)
	fields = append([]zap.Field{
		zap.String("action", action),
		zap.String("session_id", actor.SessionID),
		zap.String("role", actor.Role),
	}, fields...)
	s.logger.Info("audit", fields...)
}
