package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs for API responses. Timestamps are ISO 8601 strings; money fields
// use decimal values serialized as strings to keep amounts exact on the wire.

type ClientDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	OrgNumber     string    `json:"orgNumber,omitempty"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	PostalCode    string    `json:"postalCode,omitempty"`
	Country       string    `json:"country"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"` // ISO 8601
	UpdatedAt     string    `json:"updatedAt"` // ISO 8601
}

type EmployeeDTO struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email,omitempty"`
	Title      string    `json:"title,omitempty"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Tags        []string        `json:"tags,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type QuoteDTO struct {
	ID           uuid.UUID       `json:"id"`
	QuoteNumber  string          `json:"quoteNumber"`
	ClientID     uuid.UUID       `json:"clientId"`
	ClientName   string          `json:"clientName,omitempty"`
	EmployeeID   uuid.UUID       `json:"employeeId"`
	EmployeeName string          `json:"employeeName,omitempty"`
	Status       QuoteStatus     `json:"status"`
	Items        []LineItemDTO   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	ValidUntil   *string         `json:"validUntil,omitempty"` // ISO 8601
	Notes        string          `json:"notes,omitempty"`
	OrderID      *uuid.UUID      `json:"orderId,omitempty"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

type OrderDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	ClientID    uuid.UUID       `json:"clientId"`
	ClientName  string          `json:"clientName,omitempty"`
	EmployeeID  *uuid.UUID      `json:"employeeId,omitempty"`
	QuoteID     *uuid.UUID      `json:"quoteId,omitempty"`
	QuoteNumber string          `json:"quoteNumber,omitempty"`
	Status      OrderStatus     `json:"status"`
	Items       []LineItemDTO   `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Notes       string          `json:"notes,omitempty"`
	InvoiceID   *uuid.UUID      `json:"invoiceId,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type InvoiceDTO struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientID      uuid.UUID       `json:"clientId"`
	ClientName    string          `json:"clientName,omitempty"`
	OrderID       uuid.UUID       `json:"orderId"`
	OrderNumber   string          `json:"orderNumber,omitempty"`
	Status        InvoiceStatus   `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	DueDate       string          `json:"dueDate"`            // ISO 8601
	PaidAt        *string         `json:"paidAt,omitempty"`   // ISO 8601
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

// LineItemDTO represents one line on a quote or order
type LineItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request shapes

// LineItemRequest is one requested line on a quote or order.
// UnitPrice is optional; when omitted the product's current price is used.
type LineItemRequest struct {
	ProductID   uuid.UUID        `json:"productId" validate:"required"`
	Description string           `json:"description,omitempty" validate:"max=500"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
}

type CreateQuoteRequest struct {
	ClientID   uuid.UUID         `json:"clientId" validate:"required"`
	EmployeeID uuid.UUID         `json:"employeeId" validate:"required"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	ValidUntil *string           `json:"validUntil,omitempty"` // ISO 8601 date
	Notes      string            `json:"notes,omitempty" validate:"max=5000"`
}

type UpdateQuoteRequest struct {
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	ValidUntil *string           `json:"validUntil,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
}

type UpdateQuoteStatusRequest struct {
	Status QuoteStatus `json:"status" validate:"required"`
}

type CreateOrderRequest struct {
	ClientID   uuid.UUID         `json:"clientId" validate:"required"`
	EmployeeID *uuid.UUID        `json:"employeeId,omitempty"`
	QuoteID    *uuid.UUID        `json:"quoteId,omitempty"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      string            `json:"notes,omitempty" validate:"max=5000"`
}

type UpdateOrderRequest struct {
	Items []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes *string           `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

type CreateInvoiceRequest struct {
	DueDate *string `json:"dueDate,omitempty"` // ISO 8601; defaults to creation + payment term
	Notes   string  `json:"notes,omitempty" validate:"max=5000"`
}

type MarkInvoicePaidRequest struct {
	PaymentDate   *string `json:"paymentDate,omitempty"` // ISO 8601; defaults to now
	PaymentMethod string  `json:"paymentMethod,omitempty" validate:"max=50"`
}

type UpdateInvoiceStatusRequest struct {
	Status InvoiceStatus `json:"status" validate:"required"`
}

type CreateClientRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	OrgNumber     string `json:"orgNumber,omitempty" validate:"max=20"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	City          string `json:"city,omitempty" validate:"max=100"`
	PostalCode    string `json:"postalCode,omitempty" validate:"max=20"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	ContactPerson string `json:"contactPerson,omitempty" validate:"max=200"`
}

type CreateEmployeeRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Title      string `json:"title,omitempty" validate:"max=100"`
	Department string `json:"department,omitempty" validate:"max=100"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	SKU         string          `json:"sku,omitempty" validate:"max=50"`
	Description string          `json:"description,omitempty" validate:"max=5000"`
	Unit        string          `json:"unit,omitempty" validate:"max=20"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Currency    string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Tags        []string        `json:"tags,omitempty"`
}

// PaginatedResponse wraps list responses with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
