package mapper

import (
	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/shopspring/decimal"
)

// LineSubtotal computes quantity × unit price with exact decimal arithmetic,
// rounded to two decimal places.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// QuoteTotal sums the subtotals of the quote's items.
func QuoteTotal(items []domain.QuoteItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal)
	}
	return total.Round(2)
}

// OrderTotal sums the subtotals of the order's items.
func OrderTotal(items []domain.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal)
	}
	return total.Round(2)
}
