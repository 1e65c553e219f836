package pos

import "bizhub/backend/internal/domain"

// Session is the sales screen state for one browser session. It moves between
// the entering view and the receipt view; neither is terminal.
type Session struct {
	View          string          `json:"view"`
	Cart          Cart            `json:"cart"`
	Receipt       *domain.Receipt `json:"receipt,omitempty"`
	LastReceiptMS int64           `json:"last_receipt_ms"`
}

func NewSession() Session {
	return Session{View: domain.SalesViewEntering, Cart: Cart{Lines: []domain.CartLine{}}}
}

func (s Session) Entering() bool {
	return s.View != domain.SalesViewReceiptShown
}

// Cart edits only apply while entering; the receipt view has no cart controls.

func (s Session) AddLine(catalog Catalog, itemID int, quantity int) Session {
	if !s.Entering() {
		return s
	}
	s.Cart = s.Cart.AddLine(catalog, itemID, quantity)
	return s
}

func (s Session) SetQuantity(itemID int, quantity int) Session {
	if !s.Entering() {
		return s
	}
	s.Cart = s.Cart.SetQuantity(itemID, quantity)
	return s
}

func (s Session) RemoveLine(itemID int) Session {
	if !s.Entering() {
		return s
	}
	s.Cart = s.Cart.RemoveLine(itemID)
	return s
}

// ProcessSale finalizes the cart, clears it and shows the receipt. Calling it
// while a receipt is already shown returns the session unchanged.
func (s Session) ProcessSale(staffName string, clock Clock) Session {
	if !s.Entering() {
		return s
	}
	now := clock.Now()
	millis := nextReceiptMillis(s.LastReceiptMS, now)
	receipt := buildReceipt(s.Cart, staffName, now, millis)

	s.Receipt = &receipt
	s.LastReceiptMS = millis
	s.Cart = Cart{Lines: []domain.CartLine{}}
	s.View = domain.SalesViewReceiptShown
	return s
}

// Dismiss discards the shown receipt and returns to cart entry.
func (s Session) Dismiss() Session {
	s.Receipt = nil
	s.View = domain.SalesViewEntering
	return s
}

func (s Session) Response() domain.SalesSessionResponse {
	view := s.View
	if view == "" {
		view = domain.SalesViewEntering
	}
	var receipt *domain.Receipt
	if s.Receipt != nil {
		copied := *s.Receipt
		copied.Items = append([]domain.CartLine(nil), s.Receipt.Items...)
		receipt = &copied
	}
	return domain.SalesSessionResponse{
		View:      view,
		Lines:     s.Cart.Snapshot(),
		LineCount: s.Cart.Len(),
		Total:     s.Cart.Total(),
		Receipt:   receipt,
	}
}
