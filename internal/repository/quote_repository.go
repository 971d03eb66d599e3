package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
// Lifecycle operations that span multiple writes run all of them through
// the same transaction handle.
func (r *QuoteRepository) WithTx(tx *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: tx}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Employee").
		Preload("Items").
		Preload("Items.Product").
		Preload("Order").
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) GetByNumber(ctx context.Context, number string) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Employee").
		Preload("Items").
		Preload("Items.Product").
		Preload("Order").
		Where("quote_number = ?", number).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Quote{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&domain.Quote{BaseModel: domain.BaseModel{ID: id}}).Error
}

// ReplaceItems deletes the quote's current item set and inserts the new one.
// Items are owned by their quote; an update never patches rows in place.
func (r *QuoteRepository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []domain.QuoteItem) error {
	if err := r.db.WithContext(ctx).Where("quote_id = ?", quoteID).Delete(&domain.QuoteItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].QuoteID = quoteID
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// List returns a page of quotes filtered by client, status and creation
// date range. from is inclusive, to is exclusive.
func (r *QuoteRepository) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.QuoteStatus, from, to *time.Time) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quote{}).
		Preload("Client").
		Preload("Employee").
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
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotes).Error

	return quotes, total, err
}
