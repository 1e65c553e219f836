package service

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// parseInt reads a form value as a whole number. Blank and non-numeric
// values report false; fractional numbers are truncated and numbers beyond
// the int range are clamped to it.
func parseInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return clampFloat(v)
	case float32:
		return clampFloat(float64(v))
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, false
		}
		raw = trimLeadingZeros(v)
	case bool:
		return 0, false
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		f, ferr := cast.ToFloat64E(raw)
		if ferr != nil {
			return 0, false
		}
		return clampFloat(f)
	}
	return n, true
}

func clampFloat(f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}

func intOr(raw any, fallback int) int {
	n, ok := parseInt(raw)
	if !ok {
		return fallback
	}
	return n
}

// quantityOrOne mirrors the quantity field: anything that is not a positive
// whole number becomes 1.
func quantityOrOne(raw any) int {
	n := intOr(raw, 1)
	if n < 1 {
		return 1
	}
	return n
}

// cast parses strings with base prefixes, so "010" would read as octal.
func trimLeadingZeros(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" || trimmed[0] == '.' {
		trimmed = "0" + trimmed
	}
	return sign + trimmed
}
