package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Symbol = "₦"
	// Code replaces Symbol where the output device has no glyph for it.
	Code = "NGN"
)

var printer = message.NewPrinter(language.English)

// Group renders n with thousands separators, e.g. 225000 -> "225,000".
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

// Format renders a whole-naira amount the way receipts and cards show it.
func Format(amount int64) string {
	if amount < 0 {
		return "-" + Symbol + Group(-amount)
	}
	return Symbol + Group(amount)
}

// FormatCode is Format with the ISO code, e.g. "NGN 45,000", for ASCII-only
// printers.
func FormatCode(amount int64) string {
	if amount < 0 {
		return "-" + Code + " " + Group(-amount)
	}
	return Code + " " + Group(amount)
}

// Mul returns a*b and false when the product does not fit in an int64.
func Mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// Add returns a+b and false when the sum does not fit in an int64.
func Add(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

// Saturate clamps an overflowed result to the int64 bound of its sign.
func Saturate(v int64, ok bool, negative bool) int64 {
	if ok {
		return v
	}
	if negative {
		return math.MinInt64
	}
	return math.MaxInt64
}
