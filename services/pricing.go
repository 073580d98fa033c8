// Package services holds the pure logic of the proforma frontend: money
// arithmetic, the line item list, input parsing, validation and exports.
package services

import "github.com/shopspring/decimal"

// CalcLineTotal returns quantity × unit price.
func CalcLineTotal(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// CalcGrandTotal sums the line totals of items. An empty slice totals zero.
func CalcGrandTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}
