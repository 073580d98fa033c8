package services

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is prefixed to every amount shown in the UI.
const CurrencySymbol = "S/"

// FormatSoles formats an amount in soles with exactly two decimal places and
// no thousands grouping (e.g., S/ 41.50). Rounding is half away from zero.
func FormatSoles(amount decimal.Decimal) string {
	return CurrencySymbol + " " + amount.StringFixed(2)
}

// FormatSolesFloat is FormatSoles for amounts that arrive as JSON floats
// (list totals, unit prices reported by the backend).
func FormatSolesFloat(amount float64) string {
	return FormatSoles(decimal.NewFromFloat(amount))
}

// FormatQuantity renders a backend quantity without a trailing ".0",
// so 3.0 becomes "3" and 2.5 stays "2.5".
func FormatQuantity(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}
