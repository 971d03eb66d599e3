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

// OrderService owns the order lifecycle: creation (direct or from a quote),
// mutation, status transitions, deletion with quote-status rollback, and
// the handoff into invoicing. It implements OrderCreator for the quote
// manager and delegates invoice creation to the bound InvoiceCreator.
type OrderService struct {
	db             *gorm.DB
	orderRepo      *repository.OrderRepository
	quoteRepo      *repository.QuoteRepository
	clientRepo     *repository.ClientRepository
	employeeRepo   *repository.EmployeeRepository
	productRepo    *repository.ProductRepository
	invoiceRepo    *repository.InvoiceRepository
	numberSvc      *NumberSequenceService
	invoiceCreator InvoiceCreator
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	quoteRepo *repository.QuoteRepository,
	clientRepo *repository.ClientRepository,
	employeeRepo *repository.EmployeeRepository,
	productRepo *repository.ProductRepository,
	invoiceRepo *repository.InvoiceRepository,
	numberSvc *NumberSequenceService,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:           db,
		orderRepo:    orderRepo,
		quoteRepo:    quoteRepo,
		clientRepo:   clientRepo,
		employeeRepo: employeeRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		numberSvc:    numberSvc,
		logger:       logger,
	}
}

// SetInvoiceCreator binds the invoice-creation capability used by
// CreateInvoice. Must be called at composition time.
func (s *OrderService) SetInvoiceCreator(creator InvoiceCreator) {
	s.invoiceCreator = creator
}

// Create resolves the client (and optionally the quote), computes subtotals
// and the total, issues an order number and persists the order as pending.
// When a quote is referenced the quote is flipped to converted in the same
// transaction so the reference invariant holds.
func (s *OrderService) Create(ctx context.Context, req *domain.CreateOrderRequest) (*domain.OrderDTO, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrInvalidInput)
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if req.EmployeeID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, fmt.Errorf("failed to get employee: %w", err)
		}
	}

	var quote *domain.Quote
	if req.QuoteID != nil {
		var err error
		quote, err = s.quoteRepo.GetByID(ctx, *req.QuoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrQuoteNotFound
			}
			return nil, fmt.Errorf("failed to get quote: %w", err)
		}
		if quote.Status == domain.QuoteStatusRejected {
			return nil, ErrQuoteRejected
		}

		exists, err := s.orderRepo.ExistsForQuote(ctx, *req.QuoteID)
		if err != nil {
			return nil, fmt.Errorf("failed to check quote orders: %w", err)
		}
		if exists {
			return nil, ErrQuoteAlreadyOrdered
		}
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.numberSvc.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderNumber: number,
		ClientID:    req.ClientID,
		EmployeeID:  req.EmployeeID,
		QuoteID:     req.QuoteID,
		Status:      domain.OrderStatusPending,
		Items:       items,
		Total:       mapper.OrderTotal(items),
		Currency:    "NOK",
		Notes:       req.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if quote != nil && quote.Status != domain.QuoteStatusConvertedToOrder {
			result := tx.WithContext(ctx).Model(&domain.Quote{}).
				Where("id = ? AND status <> ?", quote.ID, domain.QuoteStatusConvertedToOrder).
				Update("status", domain.QuoteStatusConvertedToOrder)
			if result.Error != nil {
				return fmt.Errorf("failed to mark quote converted: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrQuoteAlreadyOrdered
			}
		}
		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()))

	return s.reload(ctx, order.ID)
}

// CreateOrderFromQuote creates the order for a converted quote inside the
// caller's transaction. Line items are copied verbatim from the quote:
// product, quantity, unit price and description are taken as quoted, not
// re-resolved against current catalog prices.
func (s *OrderService) CreateOrderFromQuote(ctx context.Context, tx *gorm.DB, quote *domain.Quote) (*domain.Order, error) {
	txRepo := s.orderRepo.WithTx(tx)

	exists, err := txRepo.ExistsForQuote(ctx, quote.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check quote orders: %w", err)
	}
	if exists {
		return nil, ErrQuoteAlreadyOrdered
	}

	// Issue the number inside the caller's transaction; a fresh one would
	// block waiting for a second connection while this one is held.
	number, err := s.numberSvc.WithTx(tx).GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(quote.Items))
	for i := range quote.Items {
		item := &quote.Items[i]
		items = append(items, domain.OrderItem{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	quoteID := quote.ID
	order := &domain.Order{
		OrderNumber: number,
		ClientID:    quote.ClientID,
		EmployeeID:  &quote.EmployeeID,
		QuoteID:     &quoteID,
		Status:      domain.OrderStatusPending,
		Items:       items,
		Total:       mapper.OrderTotal(items),
		Currency:    quote.Currency,
		Notes:       quote.Notes,
	}

	if err := txRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order from quote: %w", err)
	}

	return order, nil
}

// GetByID returns the order with its items and relations.
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}

// GetByNumber returns the order with the given document number.
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}

// List returns a page of orders, optionally filtered by client, status and
// creation date range.
func (s *OrderService) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.OrderStatus, from, to *time.Time) ([]domain.OrderDTO, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, page, pageSize, clientID, status, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	dtos := make([]domain.OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, mapper.ToOrderDTO(&orders[i]))
	}
	return dtos, total, nil
}

// Update replaces the order's item set wholesale and recomputes the total.
// Invoiced and completed orders are immutable to edits.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateOrderRequest) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status == domain.OrderStatusInvoiced || order.Status == domain.OrderStatusCompleted {
		return nil, ErrOrderNotEditable
	}

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must have at least one item", ErrInvalidInput)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.orderRepo.WithTx(tx)

		if err := txRepo.ReplaceItems(ctx, order.ID, items); err != nil {
			return fmt.Errorf("failed to replace order items: %w", err)
		}

		order.Items = nil
		order.Invoice = nil
		order.Total = mapper.OrderTotal(items)
		if req.Notes != nil {
			order.Notes = *req.Notes
		}

		if err := txRepo.Update(ctx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated",
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.Total.String()))

	return s.reload(ctx, order.ID)
}

// UpdateStatus moves the order along its transition table. A request for an
// illegal pair fails naming the pair; a self-transition is a no-op. The
// invoiced state is reserved for invoice creation.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.OrderDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if status == domain.OrderStatusInvoiced && order.Status != domain.OrderStatusInvoiced {
		return nil, fmt.Errorf("%w: create an invoice for the order instead", ErrStatusReserved)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, illegalTransition(string(order.Status), string(status))
	}

	if order.Status != status {
		if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
			return nil, fmt.Errorf("failed to update order status: %w", err)
		}
		s.logger.Info("order status changed",
			zap.String("order_id", id.String()),
			zap.String("from", string(order.Status)),
			zap.String("to", string(status)))
	}

	return s.reload(ctx, id)
}

// Delete removes the order and its items. An invoiced order cannot be
// deleted. If the order was created from a quote, the quote is reverted to
// accepted in the same transaction.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status == domain.OrderStatusInvoiced {
		return ErrOrderInvoiced
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if order.QuoteID != nil {
			if err := s.quoteRepo.WithTx(tx).UpdateStatus(ctx, *order.QuoteID, domain.QuoteStatusAccepted); err != nil {
				return fmt.Errorf("failed to revert quote status: %w", err)
			}
		}
		if err := s.orderRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted",
		zap.String("order_id", id.String()),
		zap.String("order_number", order.OrderNumber))
	return nil
}

// CreateInvoice invoices the order: the invoice row and the order's flip to
// invoiced commit together or not at all. The flip is a conditional UPDATE
// taking the order's row lock first, so two concurrent invoicing calls
// serialize and the loser fails without creating a second invoice.
func (s *OrderService) CreateInvoice(ctx context.Context, orderID uuid.UUID, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status == domain.OrderStatusCancelled {
		return nil, ErrOrderCancelled
	}
	if order.Status == domain.OrderStatusInvoiced {
		return nil, ErrOrderAlreadyInvoiced
	}

	var invoice *domain.Invoice
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Model(&domain.Order{}).
			Where("id = ? AND status NOT IN ?", orderID, []domain.OrderStatus{
				domain.OrderStatusCancelled,
				domain.OrderStatusInvoiced,
			}).
			Update("status", domain.OrderStatusInvoiced)
		if result.Error != nil {
			return fmt.Errorf("failed to mark order invoiced: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrOrderAlreadyInvoiced
		}

		invoice, err = s.invoiceCreator.CreateInvoiceFromOrder(ctx, tx, order, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order invoiced",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber))

	created, err := s.invoiceRepo.GetByID(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}
	dto := mapper.ToInvoiceDTO(created)
	return &dto, nil
}

// buildItems resolves each requested line's product, applies the product's
// current price when the request omits one, and computes subtotals.
func (s *OrderService) buildItems(ctx context.Context, reqs []domain.LineItemRequest) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(reqs))
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

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    mapper.LineSubtotal(req.Quantity, unitPrice),
		})
	}
	return items, nil
}

func (s *OrderService) reload(ctx context.Context, id uuid.UUID) (*domain.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	dto := mapper.ToOrderDTO(order)
	return &dto, nil
}
