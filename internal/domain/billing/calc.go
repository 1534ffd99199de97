package billing

import "github.com/shopspring/decimal"

// LineTotal returns unit_price multiplied by quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotals recomputes every line's total and sequence and returns the
// invoice subtotal and total due. Client-supplied totals are never trusted;
// this is the single place amounts are derived.
func ComputeTotals(lines []*InvoiceLine, taxAmount decimal.Decimal) (subtotal, totalDue decimal.Decimal) {
	subtotal = decimal.Zero
	for i, l := range lines {
		l.Sequence = i + 1
		l.LineTotal = LineTotal(l.UnitPrice, l.Quantity)
		subtotal = subtotal.Add(l.LineTotal)
	}
	return subtotal, subtotal.Add(taxAmount)
}
