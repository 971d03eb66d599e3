package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key application-side so the same models
// work on PostgreSQL and on SQLite in tests.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Client represents an organization that receives quotes, orders and invoices
type Client struct {
	BaseModel
	Name          string  `gorm:"type:varchar(200);not null;index"`
	OrgNumber     string  `gorm:"type:varchar(20);uniqueIndex;column:org_number"`
	Email         string  `gorm:"type:varchar(255);not null"`
	Phone         string  `gorm:"type:varchar(50)"`
	Address       string  `gorm:"type:varchar(500)"`
	City          string  `gorm:"type:varchar(100)"`
	PostalCode    string  `gorm:"type:varchar(20);column:postal_code"`
	Country       string  `gorm:"type:varchar(100);not null;default:'Norway'"`
	ContactPerson string  `gorm:"type:varchar(200);column:contact_person"`
	IsActive      bool    `gorm:"not null;default:true;column:is_active"`
	Quotes        []Quote `gorm:"foreignKey:ClientID"`
	Orders        []Order `gorm:"foreignKey:ClientID"`
}

// Employee represents the salesperson issuing a document.
// Full HR records live in the HR system; this is the reference data the
// sales documents need.
type Employee struct {
	BaseModel
	FirstName  string `gorm:"type:varchar(100);not null;column:first_name"`
	LastName   string `gorm:"type:varchar(100);not null;column:last_name"`
	Email      string `gorm:"type:varchar(255);uniqueIndex"`
	Title      string `gorm:"type:varchar(100)"`
	Department string `gorm:"type:varchar(100)"`
	IsActive   bool   `gorm:"not null;default:true;column:is_active"`
}

// FullName returns the employee's full name
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Product represents a catalog item with its current unit price
type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(200);not null;index"`
	SKU         string          `gorm:"type:varchar(50);uniqueIndex;column:sku"`
	Description string          `gorm:"type:text"`
	Unit        string          `gorm:"type:varchar(20);not null;default:'stk'"`
	Price       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'NOK'"`
	Tags        pq.StringArray  `gorm:"type:text[]"`
	IsActive    bool            `gorm:"not null;default:true;column:is_active"`
}

// Quote represents a priced proposal to a client
type Quote struct {
	BaseModel
	QuoteNumber string          `gorm:"type:varchar(50);not null;uniqueIndex;column:quote_number"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index;column:client_id"`
	Client      *Client         `gorm:"foreignKey:ClientID"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;index;column:employee_id"`
	Employee    *Employee       `gorm:"foreignKey:EmployeeID"`
	Status      QuoteStatus     `gorm:"type:varchar(50);not null;default:'draft';index"`
	Items       []QuoteItem     `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	Total       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'NOK'"`
	ValidUntil  *time.Time      `gorm:"type:date;column:valid_until"`
	Notes       string          `gorm:"type:text"`
	Order       *Order          `gorm:"foreignKey:QuoteID"`
}

// QuoteItem represents one line on a quote.
// Owned by its quote; replaced wholesale on update.
type QuoteItem struct {
	BaseModel
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index;column:quote_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index;column:product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID"`
	Description string          `gorm:"type:varchar(500)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null;column:unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// Order represents a committed sale, created directly or from a quote.
// QuoteID is unique when set: at most one order per quote.
type Order struct {
	BaseModel
	OrderNumber string          `gorm:"type:varchar(50);not null;uniqueIndex;column:order_number"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index;column:client_id"`
	Client      *Client         `gorm:"foreignKey:ClientID"`
	EmployeeID  *uuid.UUID      `gorm:"type:uuid;index;column:employee_id"`
	Employee    *Employee       `gorm:"foreignKey:EmployeeID"`
	QuoteID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex;column:quote_id"`
	Quote       *Quote          `gorm:"foreignKey:QuoteID"`
	Status      OrderStatus     `gorm:"type:varchar(50);not null;default:'pending';index"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Total       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'NOK'"`
	Notes       string          `gorm:"type:text"`
	Invoice     *Invoice        `gorm:"foreignKey:OrderID"`
}

// OrderItem represents one line on an order
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index;column:order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index;column:product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID"`
	Description string          `gorm:"type:varchar(500)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null;column:unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// Invoice represents the billing document for exactly one order.
// Total is copied from the order at creation time, never recomputed.
type Invoice struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex;column:invoice_number"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index;column:client_id"`
	Client        *Client         `gorm:"foreignKey:ClientID"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex;column:order_id"`
	Order         *Order          `gorm:"foreignKey:OrderID"`
	Status        InvoiceStatus   `gorm:"type:varchar(50);not null;default:'pending';index"`
	Total         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'NOK'"`
	DueDate       time.Time       `gorm:"not null;column:due_date;index"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
	PaymentMethod string          `gorm:"type:varchar(50);column:payment_method"`
	Notes         string          `gorm:"type:text"`
}

// NumberSequence holds the durable per-kind counter behind document numbers
type NumberSequence struct {
	Kind      string    `gorm:"type:varchar(50);primaryKey"`
	LastValue int64     `gorm:"not null;default:0;column:last_value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}
