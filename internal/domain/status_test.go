package domain

import "testing"

func TestQuoteStatusTransitions(t *testing.T) {
	tests := []struct {
		from    QuoteStatus
		to      QuoteStatus
		allowed bool
	}{
		{QuoteStatusDraft, QuoteStatusDraft, true},
		{QuoteStatusDraft, QuoteStatusAccepted, true},
		{QuoteStatusDraft, QuoteStatusRejected, true},
		{QuoteStatusDraft, QuoteStatusConvertedToOrder, true},
		{QuoteStatusAccepted, QuoteStatusAccepted, true},
		{QuoteStatusAccepted, QuoteStatusRejected, true},
		{QuoteStatusAccepted, QuoteStatusConvertedToOrder, true},
		{QuoteStatusAccepted, QuoteStatusDraft, false},
		{QuoteStatusRejected, QuoteStatusRejected, true},
		{QuoteStatusRejected, QuoteStatusDraft, false},
		{QuoteStatusRejected, QuoteStatusAccepted, false},
		{QuoteStatusRejected, QuoteStatusConvertedToOrder, false},
		{QuoteStatusConvertedToOrder, QuoteStatusConvertedToOrder, true},
		{QuoteStatusConvertedToOrder, QuoteStatusAccepted, true},
		{QuoteStatusConvertedToOrder, QuoteStatusDraft, false},
		{QuoteStatusConvertedToOrder, QuoteStatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusPending, true},
		{OrderStatusPending, OrderStatusInProcess, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusPending, OrderStatusInvoiced, false},
		{OrderStatusInProcess, OrderStatusCompleted, true},
		{OrderStatusInProcess, OrderStatusCancelled, true},
		{OrderStatusInProcess, OrderStatusPending, false},
		{OrderStatusInProcess, OrderStatusInvoiced, false},
		{OrderStatusCompleted, OrderStatusCompleted, true},
		{OrderStatusCompleted, OrderStatusInProcess, false},
		{OrderStatusCompleted, OrderStatusInvoiced, false},
		{OrderStatusCancelled, OrderStatusCancelled, true},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusInvoiced, OrderStatusInvoiced, true},
		{OrderStatusInvoiced, OrderStatusCompleted, false},
		{OrderStatusInvoiced, OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusPending, InvoiceStatusPending, true},
		{InvoiceStatusPending, InvoiceStatusPaid, true},
		{InvoiceStatusPending, InvoiceStatusOverdue, true},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, InvoiceStatusPending, false},
		{InvoiceStatusPaid, InvoiceStatusPaid, true},
		{InvoiceStatusPaid, InvoiceStatusPending, false},
		{InvoiceStatusPaid, InvoiceStatusOverdue, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	if !QuoteStatusConvertedToOrder.IsValid() {
		t.Error("converted_to_order should be a valid quote status")
	}
	if QuoteStatus("approved").IsValid() {
		t.Error("approved should not be a valid quote status")
	}
	if !OrderStatusInvoiced.IsValid() {
		t.Error("invoiced should be a valid order status")
	}
	if OrderStatus("shipped").IsValid() {
		t.Error("shipped should not be a valid order status")
	}
	if !InvoiceStatusOverdue.IsValid() {
		t.Error("overdue should be a valid invoice status")
	}
	if InvoiceStatus("void").IsValid() {
		t.Error("void should not be a valid invoice status")
	}
}

func TestDocumentKindPrefix(t *testing.T) {
	tests := []struct {
		kind   DocumentKind
		prefix string
	}{
		{DocumentKindQuote, "QUO"},
		{DocumentKindOrder, "ORD"},
		{DocumentKindInvoice, "INV"},
		{DocumentKind("receipt"), ""},
	}

	for _, tt := range tests {
		if got := tt.kind.Prefix(); got != tt.prefix {
			t.Errorf("Prefix(%s) = %q, want %q", tt.kind, got, tt.prefix)
		}
	}

	if DocumentKind("receipt").IsValid() {
		t.Error("receipt should not be a valid document kind")
	}
}
