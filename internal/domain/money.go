package domain

import "github.com/shopspring/decimal"

// Money columns are DECIMAL(10,2).
const MoneyScale = 2

var moneyLimit = decimal.New(1, 8)

// IsStorableMoney reports whether d fits a DECIMAL(10,2) column without
// rounding: at most two fractional digits and an absolute value below 10^8.
func IsStorableMoney(d decimal.Decimal) bool {
	if d.Abs().GreaterThanOrEqual(moneyLimit) {
		return false
	}
	return d.Equal(d.Truncate(MoneyScale))
}
