package backtest

import "math"

// Shares converts the capital allotted to one trade into a whole share
// count at the given entry price. It returns 0 when the entry price is
// below the configured price floor (illiquid penny-stock filter), when
// the price is not positive, or when the capital cannot buy a single
// share. Fractional shares are never modeled.
func Shares(capitalPerTrade, entryPrice, minPrice float64) int {
	if entryPrice <= 0 || entryPrice < minPrice {
		return 0
	}
	if capitalPerTrade < entryPrice {
		return 0
	}
	return int(math.Floor(capitalPerTrade / entryPrice))
}
