package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/domain"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Employee").
		Preload("Quote").
		Preload("Items").
		Preload("Items.Product").
		Preload("Invoice").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Employee").
		Preload("Quote").
		Preload("Items").
		Preload("Items.Product").
		Preload("Invoice").
		Where("order_number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByQuoteID returns the order created from the given quote, if any.
func (r *OrderRepository) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Where("quote_id = ?", quoteID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ExistsForQuote reports whether any order references the given quote.
func (r *OrderRepository) ExistsForQuote(ctx context.Context, quoteID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("quote_id = ?", quoteID).
		Count(&count).Error
	return count > 0, err
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&domain.Order{BaseModel: domain.BaseModel{ID: id}}).Error
}

// ReplaceItems deletes the order's current item set and inserts the new one.
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []domain.OrderItem) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// List returns a page of orders filtered by client, status and creation
// date range. from is inclusive, to is exclusive.
func (r *OrderRepository) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.OrderStatus, from, to *time.Time) ([]domain.Order, int64, error) {
	var orders []domain.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Order{}).
		Preload("Client").
		Preload("Quote").
		Preload("Items")

	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}

	if to != nil {
		query = query.Where("created_at < ?", *to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&orders).Error

	return orders, total, err
}
