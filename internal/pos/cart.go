package pos

import (
	"math"

	"bizhub/backend/internal/domain"
	"bizhub/backend/internal/money"
)

// Catalog is the read-only list of sellable items for a session.
type Catalog []domain.CatalogItem

func (c Catalog) Find(id int) (domain.CatalogItem, bool) {
	for _, item := range c {
		if item.ID == id {
			return item, true
		}
	}
	return domain.CatalogItem{}, false
}

// Cart is an ordered set of lines keyed by catalog id. Every operation returns
// a new Cart and leaves the receiver untouched.
type Cart struct {
	Lines []domain.CartLine `json:"lines"`
}

// AddLine appends a line for itemID or, when one exists, increases its
// quantity. Unknown ids, quantities below one and additions whose quantity
// or total would overflow leave the cart unchanged. Stock is not checked.
func (c Cart) AddLine(catalog Catalog, itemID int, quantity int) Cart {
	if quantity < 1 {
		return c
	}
	item, ok := catalog.Find(itemID)
	if !ok {
		return c
	}

	next := c.clone()
	for i := range next.Lines {
		if next.Lines[i].ID == itemID {
			if next.Lines[i].Quantity > math.MaxInt-quantity {
				return c
			}
			next.Lines[i].Quantity += quantity
			return next.orUnchanged(c)
		}
	}
	next.Lines = append(next.Lines, domain.CartLine{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.UnitPrice,
		Quantity: quantity,
		Unit:     item.Unit,
	})
	return next.orUnchanged(c)
}

// SetQuantity replaces a line's quantity in place. Zero or less removes it.
// A quantity that would overflow the total is ignored.
func (c Cart) SetQuantity(itemID int, quantity int) Cart {
	if quantity <= 0 {
		return c.RemoveLine(itemID)
	}
	next := c.clone()
	for i := range next.Lines {
		if next.Lines[i].ID == itemID {
			next.Lines[i].Quantity = quantity
			break
		}
	}
	return next.orUnchanged(c)
}

func (c Cart) RemoveLine(itemID int) Cart {
	next := Cart{Lines: make([]domain.CartLine, 0, len(c.Lines))}
	for _, line := range c.Lines {
		if line.ID != itemID {
			next.Lines = append(next.Lines, line)
		}
	}
	return next
}

func (c Cart) Line(itemID int) (domain.CartLine, bool) {
	for _, line := range c.Lines {
		if line.ID == itemID {
			return line, true
		}
	}
	return domain.CartLine{}, false
}

// Total is Σ price×quantity. Carts built through AddLine and SetQuantity
// never overflow; a hand-built cart that does is clamped.
func (c Cart) Total() int64 {
	total, ok := c.checkedTotal()
	if !ok {
		return math.MaxInt64
	}
	return total
}

func (c Cart) checkedTotal() (int64, bool) {
	total := int64(0)
	for _, line := range c.Lines {
		sub, ok := line.CheckedSubtotal()
		if !ok {
			return 0, false
		}
		if total, ok = money.Add(total, sub); !ok {
			return 0, false
		}
	}
	return total, true
}

func (c Cart) orUnchanged(prev Cart) Cart {
	if _, ok := c.checkedTotal(); !ok {
		return prev
	}
	return c
}

func (c Cart) Len() int {
	return len(c.Lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot returns a copy of the lines that shares no memory with the cart.
func (c Cart) Snapshot() []domain.CartLine {
	lines := make([]domain.CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}

func (c Cart) clone() Cart {
	return Cart{Lines: c.Snapshot()}
}
