package pos

import (
	"fmt"
	"time"

	"bizhub/backend/internal/domain"
)

const (
	receiptDateLayout = "1/2/2006"
	receiptTimeLayout = "3:04:05 PM"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var SystemClock Clock = ClockFunc(time.Now)

// Finalize builds a receipt from the cart as it stands now. The cart itself is
// not modified; clearing it after a sale is the caller's job. An empty cart
// yields a zero-total receipt.
func Finalize(cart Cart, staffName string, clock Clock) domain.Receipt {
	now := clock.Now()
	return buildReceipt(cart, staffName, now, now.UnixMilli())
}

func ReceiptID(millis int64) string {
	return fmt.Sprintf("RCP-%d", millis)
}

func buildReceipt(cart Cart, staffName string, at time.Time, idMillis int64) domain.Receipt {
	return domain.Receipt{
		ID:        ReceiptID(idMillis),
		Date:      at.Format(receiptDateLayout),
		Time:      at.Format(receiptTimeLayout),
		Items:     cart.Snapshot(),
		Total:     cart.Total(),
		StaffName: staffName,
		IssuedAt:  at,
	}
}

// nextReceiptMillis keeps receipt ids strictly increasing within a session
// even when two sales land on the same millisecond.
func nextReceiptMillis(last int64, at time.Time) int64 {
	millis := at.UnixMilli()
	if millis <= last {
		return last + 1
	}
	return millis
}
