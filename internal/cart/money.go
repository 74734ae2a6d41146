package cart

import "github.com/shopspring/decimal"

// Currency is the single currency all prices are expressed in.
const Currency = "USD"

// FormatPrice renders an amount as dollars with two fixed decimals, e.g. $25.50.
func FormatPrice(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
