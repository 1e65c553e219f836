package inventory

import "bizhub/backend/internal/domain"

// Classify maps a stock level to its alert band. The low threshold is
// min×1.5, compared as 2×current ≤ 3×min so no fractions are involved.
func Classify(current int, min int) domain.StockStatus {
	switch {
	case current <= min:
		return domain.StockCritical
	case 2*current <= 3*min:
		return domain.StockLow
	default:
		return domain.StockGood
	}
}
