package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/mapper"
	"github.com/nordvik-as/sales-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService owns the quote lifecycle: creation, mutation, deletion and
// the transition into the converted state. Conversion delegates order
// creation to the bound OrderCreator inside one transaction.
type QuoteService struct {
	db           *gorm.DB
	quoteRepo    *repository.QuoteRepository
	clientRepo   *repository.ClientRepository
	employeeRepo *repository.EmployeeRepository
	productRepo  *repository.ProductRepository
	orderRepo    *repository.OrderRepository
	numberSvc    *NumberSequenceService
	orderCreator OrderCreator
	logger       *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	db *gorm.DB,
	quoteRepo *repository.QuoteRepository,
	clientRepo *repository.ClientRepository,
	employeeRepo *repository.EmployeeRepository,
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	numberSvc *NumberSequenceService,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		db:           db,
		quoteRepo:    quoteRepo,
		clientRepo:   clientRepo,
		employeeRepo: employeeRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		numberSvc:    numberSvc,
		logger:       logger,
	}
}

// SetOrderCreator binds the order-creation capability used by ConvertToOrder.
// Must be called at composition time before any conversion runs.
func (s *QuoteService) SetOrderCreator(creator OrderCreator) {
	s.orderCreator = creator
}

// Create resolves the client, employee and products, computes subtotals and
// the document total, issues a quote number and persists the quote in draft.
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: quote must have at least one item", ErrInvalidInput)
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.numberSvc.GenerateQuoteNumber(ctx)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		QuoteNumber: number,
		ClientID:    req.ClientID,
		EmployeeID:  req.EmployeeID,
		Status:      domain.QuoteStatusDraft,
		Items:       items,
		Total:       mapper.QuoteTotal(items),
		Currency:    "NOK",
		Notes:       req.Notes,
	}

	if req.ValidUntil != nil {
		validUntil, err := time.Parse("2006-01-02", *req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid validUntil date", ErrInvalidInput)
		}
		quote.ValidUntil = &validUntil
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.logger.Info("quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("quote_number", quote.QuoteNumber),
		zap.String("total", quote.Total.String()))

	return s.reload(ctx, quote.ID)
}

// GetByID returns the quote with its items and relations.
func (s *QuoteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// GetByNumber returns the quote with the given document number.
func (s *QuoteService) GetByNumber(ctx context.Context, number string) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// List returns a page of quotes, optionally filtered by client, status and
// creation date range.
func (s *QuoteService) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.QuoteStatus, from, to *time.Time) ([]domain.QuoteDTO, int64, error) {
	quotes, total, err := s.quoteRepo.List(ctx, page, pageSize, clientID, status, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotes: %w", err)
	}

	dtos := make([]domain.QuoteDTO, 0, len(quotes))
	for i := range quotes {
		dtos = append(dtos, mapper.ToQuoteDTO(&quotes[i]))
	}
	return dtos, total, nil
}

// Update replaces the quote's item set wholesale and recomputes the total.
// A converted quote is immutable.
func (s *QuoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if quote.Status == domain.QuoteStatusConvertedToOrder {
		return nil, ErrQuoteConverted
	}

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: quote must have at least one item", ErrInvalidInput)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.quoteRepo.WithTx(tx)

		if err := txRepo.ReplaceItems(ctx, quote.ID, items); err != nil {
			return fmt.Errorf("failed to replace quote items: %w", err)
		}

		quote.Items = nil
		quote.Total = mapper.QuoteTotal(items)
		if req.Notes != nil {
			quote.Notes = *req.Notes
		}
		if req.ValidUntil != nil {
			validUntil, err := time.Parse("2006-01-02", *req.ValidUntil)
			if err != nil {
				return fmt.Errorf("%w: invalid validUntil date", ErrInvalidInput)
			}
			quote.ValidUntil = &validUntil
		}

		if err := txRepo.Update(ctx, quote); err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote updated",
		zap.String("quote_id", quote.ID.String()),
		zap.String("total", quote.Total.String()))

	return s.reload(ctx, quote.ID)
}

// UpdateStatus moves the quote along its state machine (accept/reject).
// The converted state is reserved for ConvertToOrder.
func (s *QuoteService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuoteStatus) (*domain.QuoteDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if status == domain.QuoteStatusConvertedToOrder {
		return nil, fmt.Errorf("%w: use the convert operation", ErrStatusReserved)
	}

	if quote.Status == domain.QuoteStatusConvertedToOrder {
		return nil, ErrQuoteConverted
	}

	if !quote.Status.CanTransitionTo(status) {
		return nil, illegalTransition(string(quote.Status), string(status))
	}

	if quote.Status != status {
		if err := s.quoteRepo.UpdateStatus(ctx, id, status); err != nil {
			return nil, fmt.Errorf("failed to update quote status: %w", err)
		}
		s.logger.Info("quote status changed",
			zap.String("quote_id", id.String()),
			zap.String("from", string(quote.Status)),
			zap.String("to", string(status)))
	}

	return s.reload(ctx, id)
}

// Delete removes the quote and its items. A converted quote cannot be
// deleted while its order exists.
func (s *QuoteService) Delete(ctx context.Context, id uuid.UUID) error {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuoteNotFound
		}
		return fmt.Errorf("failed to get quote: %w", err)
	}

	if quote.Status == domain.QuoteStatusConvertedToOrder {
		return ErrQuoteConverted
	}

	if err := s.quoteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	s.logger.Info("quote deleted",
		zap.String("quote_id", id.String()),
		zap.String("quote_number", quote.QuoteNumber))
	return nil
}

// ConvertToOrder flips the quote to converted and creates the order whose
// items mirror the quote's items verbatim. Both writes happen in one
// transaction: if order creation fails the status flip is rolled back.
//
// The status flip is a conditional UPDATE, so of two concurrent conversions
// the second observes zero affected rows and fails without creating a
// second order.
func (s *QuoteService) ConvertToOrder(ctx context.Context, id uuid.UUID) (*domain.OrderDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if quote.Status == domain.QuoteStatusConvertedToOrder {
		return nil, ErrQuoteAlreadyConverted
	}
	if quote.Status == domain.QuoteStatusRejected {
		return nil, ErrQuoteRejected
	}

	var order *domain.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Model(&domain.Quote{}).
			Where("id = ? AND status <> ?", id, domain.QuoteStatusConvertedToOrder).
			Update("status", domain.QuoteStatusConvertedToOrder)
		if result.Error != nil {
			return fmt.Errorf("failed to mark quote converted: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrQuoteAlreadyConverted
		}

		order, err = s.orderCreator.CreateOrderFromQuote(ctx, tx, quote)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote converted to order",
		zap.String("quote_id", quote.ID.String()),
		zap.String("quote_number", quote.QuoteNumber),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber))

	created, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	dto := mapper.ToOrderDTO(created)
	return &dto, nil
}

// buildItems resolves each requested line's product, applies the product's
// current price when the request omits one, and computes subtotals.
func (s *QuoteService) buildItems(ctx context.Context, reqs []domain.LineItemRequest) ([]domain.QuoteItem, error) {
	items := make([]domain.QuoteItem, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}

		product, err := s.productRepo.GetByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
			}
			return nil, fmt.Errorf("failed to get product: %w", err)
		}

		unitPrice := product.Price
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}

		items = append(items, domain.QuoteItem{
			ProductID:   product.ID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    mapper.LineSubtotal(req.Quantity, unitPrice),
		})
	}
	return items, nil
}

func (s *QuoteService) reload(ctx context.Context, id uuid.UUID) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}
	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}
