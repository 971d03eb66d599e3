package mapper

import (
	"testing"

	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineSubtotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		want      string
	}{
		{"whole amounts", 3, "10.00", "30.00"},
		{"single unit", 1, "25.00", "25.00"},
		{"fractional price", 3, "9.99", "29.97"},
		{"rounds half up", 3, "0.335", "1.01"},
		{"large quantity", 1000, "199.90", "199900.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := decimal.NewFromString(tt.unitPrice)
			assert.NoError(t, err)
			got := LineSubtotal(tt.quantity, price)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"LineSubtotal(%d, %s) = %s, want %s", tt.quantity, tt.unitPrice, got, tt.want)
		})
	}
}

func TestQuoteTotal(t *testing.T) {
	items := []domain.QuoteItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"), Subtotal: decimal.RequireFromString("30.00")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("25.00"), Subtotal: decimal.RequireFromString("25.00")},
	}

	total := QuoteTotal(items)
	assert.True(t, total.Equal(decimal.RequireFromString("55.00")), "total = %s, want 55.00", total)
}

func TestQuoteTotalEmpty(t *testing.T) {
	total := QuoteTotal(nil)
	assert.True(t, total.IsZero())
}

func TestOrderTotal(t *testing.T) {
	items := []domain.OrderItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("0.10"), Subtotal: decimal.RequireFromString("0.20")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.30"), Subtotal: decimal.RequireFromString("0.30")},
	}

	// 0.1 + 0.2 style sums must stay exact
	total := OrderTotal(items)
	assert.Equal(t, "0.50", total.StringFixed(2))
}
