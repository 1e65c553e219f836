package pos

import (
	"encoding/base64"
	"fmt"
	"strings"

	"bizhub/backend/internal/domain"
	"bizhub/backend/internal/money"
)

const receiptWidth = 32

var (
	escposInit = []byte{0x1b, 0x40}
	escposCut  = []byte{0x1d, 0x56, 0x41, 0x10}
)

// ReceiptLines lays the receipt out as fixed-width text for the preview.
func ReceiptLines(profile domain.BusinessProfile, receipt domain.Receipt) []string {
	return receiptLines(profile, receipt, money.Format)
}

// PrinterLines is ReceiptLines with amounts as "NGN 45,000", since thermal
// printer code pages have no naira sign.
func PrinterLines(profile domain.BusinessProfile, receipt domain.Receipt) []string {
	return receiptLines(profile, receipt, money.FormatCode)
}

func receiptLines(profile domain.BusinessProfile, receipt domain.Receipt, format func(int64) string) []string {
	rule := strings.Repeat("-", receiptWidth)
	lines := []string{
		center(profile.Name),
		center(profile.Address),
		center("Tel: " + profile.Phone),
		rule,
		spread("Receipt #:", receipt.ID),
		spread("Date:", receipt.Date),
		spread("Time:", receipt.Time),
		spread("Staff:", receipt.StaffName),
		rule,
	}
	for _, item := range receipt.Items {
		lines = append(lines, item.Name)
		detail := fmt.Sprintf("  %d %s x %s", item.Quantity, item.Unit, format(item.Price))
		lines = append(lines, spread(detail, format(item.Subtotal())))
	}
	lines = append(lines,
		rule,
		spread("Total:", format(receipt.Total)),
		"",
		center("Thank you for your business!"),
		center("Goods sold are not returnable"),
		"",
	)
	return lines
}

// EncodeEscpos frames lines for an ESC/POS printer. Runes outside printable
// ASCII become '?'.
func EncodeEscpos(lines []string) []byte {
	out := append([]byte{}, escposInit...)
	for _, line := range lines {
		for _, r := range line {
			if r < 0x20 || r > 0x7e {
				r = '?'
			}
			out = append(out, byte(r))
		}
		out = append(out, '\n')
	}
	return append(out, escposCut...)
}

func PrintReceipt(profile domain.BusinessProfile, receipt domain.Receipt) domain.ReceiptPrintResponse {
	return domain.ReceiptPrintResponse{
		ReceiptID:    receipt.ID,
		PreviewText:  strings.Join(ReceiptLines(profile, receipt), "\n"),
		EscposBase64: base64.StdEncoding.EncodeToString(EncodeEscpos(PrinterLines(profile, receipt))),
		FileName:     fmt.Sprintf("receipt-%s.bin", receipt.ID),
	}
}

func center(text string) string {
	width := len([]rune(text))
	if width >= receiptWidth {
		return text
	}
	return strings.Repeat(" ", (receiptWidth-width)/2) + text
}

func spread(left string, right string) string {
	gap := receiptWidth - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
