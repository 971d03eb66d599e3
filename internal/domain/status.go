package domain

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft            QuoteStatus = "draft"
	QuoteStatusAccepted         QuoteStatus = "accepted"
	QuoteStatusRejected         QuoteStatus = "rejected"
	QuoteStatusConvertedToOrder QuoteStatus = "converted_to_order"
)

// IsValid checks if the QuoteStatus is a valid enum value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusConvertedToOrder:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is a legal
// transition. Self-transitions are allowed as no-ops. Moving from
// converted_to_order back to accepted happens only as the side effect of
// deleting the generated order; it is legal here and guarded at the
// operation level.
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusAccepted || target == QuoteStatusRejected || target == QuoteStatusConvertedToOrder
	case QuoteStatusAccepted:
		return target == QuoteStatusRejected || target == QuoteStatusConvertedToOrder
	case QuoteStatusConvertedToOrder:
		return target == QuoteStatusAccepted
	case QuoteStatusRejected:
		return false
	}
	return false
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInProcess OrderStatus = "in_process"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusInvoiced  OrderStatus = "invoiced"
)

// IsValid checks if the OrderStatus is a valid enum value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProcess, OrderStatusCompleted, OrderStatusCancelled, OrderStatusInvoiced:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is legal.
// Self-transitions are permitted as no-ops for every state. The invoiced
// state is entered only through invoice creation and left only through
// invoice deletion; both paths bypass this check at the operation level.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case OrderStatusPending:
		return target == OrderStatusInProcess || target == OrderStatusCancelled
	case OrderStatusInProcess:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusInvoiced:
		return false
	}
	return false
}

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is legal.
// An overdue invoice can still be paid; a paid invoice is terminal.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case InvoiceStatusPending:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid
	case InvoiceStatusPaid:
		return false
	}
	return false
}

// DocumentKind identifies a numbered document type for the sequence issuer
type DocumentKind string

const (
	DocumentKindQuote   DocumentKind = "quote"
	DocumentKindOrder   DocumentKind = "order"
	DocumentKindInvoice DocumentKind = "invoice"
)

// Prefix returns the document number prefix for the kind
func (k DocumentKind) Prefix() string {
	switch k {
	case DocumentKindQuote:
		return "QUO"
	case DocumentKindOrder:
		return "ORD"
	case DocumentKindInvoice:
		return "INV"
	}
	return ""
}

// IsValid checks if the DocumentKind is a valid enum value
func (k DocumentKind) IsValid() bool {
	return k.Prefix() != ""
}
