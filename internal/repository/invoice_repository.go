package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/domain"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Order").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Order").
		Where("invoice_number = ?", number).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetByOrderID returns the invoice for the given order, if any.
// Orders and invoices are 1:1.
func (r *InvoiceRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ExistsForOrder reports whether an invoice already references the given order.
func (r *InvoiceRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Invoice{}, "id = ?", id).Error
}

// List returns a page of invoices filtered by client, status and due date
// range. from is inclusive, to is exclusive.
func (r *InvoiceRepository) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.InvoiceStatus, from, to *time.Time) ([]domain.Invoice, int64, error) {
	var invoices []domain.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Preload("Client").
		Preload("Order")

	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if from != nil {
		query = query.Where("due_date >= ?", *from)
	}

	if to != nil {
		query = query.Where("due_date < ?", *to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&invoices).Error

	return invoices, total, err
}

// ListOverdue returns invoices currently marked overdue.
func (r *InvoiceRepository) ListOverdue(ctx context.Context) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Order").
		Where("status = ?", domain.InvoiceStatusOverdue).
		Order("due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

// MarkOverdueBefore flips pending invoices whose due date has passed to
// overdue and returns how many rows changed. Already-overdue invoices are
// untouched, so the sweep can run repeatedly.
func (r *InvoiceRepository) MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status = ? AND due_date < ?", domain.InvoiceStatusPending, cutoff).
		Update("status", domain.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}
