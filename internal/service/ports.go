package service

import (
	"context"

	"github.com/nordvik-as/sales-api/internal/domain"
	"gorm.io/gorm"
)

// The quote, order and invoice managers collaborate in a cycle: a quote
// conversion creates an order, and invoicing an order creates an invoice.
// Each manager depends only on the narrow capability it calls, and the
// concrete services are bound together with setters at composition time,
// so no circular construction is needed.

// OrderCreator creates an order mirroring a quote's line items, inside the
// caller's transaction.
type OrderCreator interface {
	CreateOrderFromQuote(ctx context.Context, tx *gorm.DB, quote *domain.Quote) (*domain.Order, error)
}

// InvoiceCreator creates the invoice for an order, inside the caller's
// transaction.
type InvoiceCreator interface {
	CreateInvoiceFromOrder(ctx context.Context, tx *gorm.DB, order *domain.Order, req *domain.CreateInvoiceRequest) (*domain.Invoice, error)
}
