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

// InvoiceService owns the invoice lifecycle: creation from an order
// (at most one per order), payment recording, overdue detection and
// deletion with order-status rollback. It implements InvoiceCreator for
// the order manager.
type InvoiceService struct {
	db          *gorm.DB
	invoiceRepo *repository.InvoiceRepository
	orderRepo   *repository.OrderRepository
	numberSvc   *NumberSequenceService
	dueDays     int
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. dueDays is the default
// payment term applied when no due date is supplied.
func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo *repository.InvoiceRepository,
	orderRepo *repository.OrderRepository,
	numberSvc *NumberSequenceService,
	dueDays int,
	logger *zap.Logger,
) *InvoiceService {
	if dueDays <= 0 {
		dueDays = 30
	}
	return &InvoiceService{
		db:          db,
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		numberSvc:   numberSvc,
		dueDays:     dueDays,
		logger:      logger,
	}
}

// CreateInvoiceFromOrder creates the invoice for an order inside the
// caller's transaction. The total is copied verbatim from the order, never
// recomputed from items. The existence check runs in the same transaction
// as the insert; the caller holds the order's row lock, so check and insert
// form one critical section per order.
func (s *InvoiceService) CreateInvoiceFromOrder(ctx context.Context, tx *gorm.DB, order *domain.Order, req *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	if order.Status == domain.OrderStatusCancelled {
		return nil, ErrOrderCancelled
	}

	txRepo := s.invoiceRepo.WithTx(tx)

	exists, err := txRepo.ExistsForOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check order invoices: %w", err)
	}
	if exists {
		return nil, ErrOrderAlreadyInvoiced
	}

	dueDate := time.Now().AddDate(0, 0, s.dueDays)
	notes := ""
	if req != nil {
		if req.DueDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.DueDate)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid dueDate", ErrInvalidInput)
			}
			dueDate = parsed
		}
		notes = req.Notes
	}

	// Issue the number inside the caller's transaction; a fresh one would
	// block waiting for a second connection while this one is held.
	number, err := s.numberSvc.WithTx(tx).GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		InvoiceNumber: number,
		ClientID:      order.ClientID,
		OrderID:       order.ID,
		Status:        domain.InvoiceStatusPending,
		Total:         order.Total,
		Currency:      order.Currency,
		DueDate:       dueDate,
		Notes:         notes,
	}

	if err := txRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return invoice, nil
}

// GetByID returns the invoice with its relations.
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// GetByNumber returns the invoice with the given document number.
func (s *InvoiceService) GetByNumber(ctx context.Context, number string) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// List returns a page of invoices, optionally filtered by client, status and
// due date range.
func (s *InvoiceService) List(ctx context.Context, page, pageSize int, clientID *uuid.UUID, status *domain.InvoiceStatus, from, to *time.Time) ([]domain.InvoiceDTO, int64, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, page, pageSize, clientID, status, from, to)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	dtos := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, mapper.ToInvoiceDTO(&invoices[i]))
	}
	return dtos, total, nil
}

// MarkPaid records payment: status paid, payment date (defaulting to now)
// and method. Calling it on an already-paid invoice re-applies the supplied
// values instead of erroring.
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID, req *domain.MarkInvoicePaidRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	paidAt := time.Now()
	if req != nil && req.PaymentDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid paymentDate", ErrInvalidInput)
		}
		paidAt = parsed
	}

	invoice.Status = domain.InvoiceStatusPaid
	invoice.PaidAt = &paidAt
	if req != nil && req.PaymentMethod != "" {
		invoice.PaymentMethod = req.PaymentMethod
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	s.logger.Info("invoice paid",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("payment_method", invoice.PaymentMethod))

	return s.reload(ctx, id)
}

// UpdateStatus sets the invoice status along its state machine. Setting
// paid without an existing payment date stamps the current time.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) (*domain.InvoiceDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if !invoice.Status.CanTransitionTo(status) {
		return nil, illegalTransition(string(invoice.Status), string(status))
	}

	if invoice.Status != status {
		invoice.Status = status
		if status == domain.InvoiceStatusPaid && invoice.PaidAt == nil {
			now := time.Now()
			invoice.PaidAt = &now
		}
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return nil, fmt.Errorf("failed to update invoice status: %w", err)
		}
	}

	return s.reload(ctx, id)
}

// GetOverdue returns invoices currently classified overdue.
func (s *InvoiceService) GetOverdue(ctx context.Context) ([]domain.InvoiceDTO, error) {
	invoices, err := s.invoiceRepo.ListOverdue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}

	dtos := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, mapper.ToInvoiceDTO(&invoices[i]))
	}
	return dtos, nil
}

// SweepOverdue reclassifies pending invoices past their due date as
// overdue and returns how many changed. Safe to run repeatedly;
// already-overdue invoices are left alone.
func (s *InvoiceService) SweepOverdue(ctx context.Context) (int64, error) {
	changed, err := s.invoiceRepo.MarkOverdueBefore(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep overdue invoices: %w", err)
	}

	if changed > 0 {
		s.logger.Info("invoices marked overdue", zap.Int64("count", changed))
	}
	return changed, nil
}

// Delete removes the invoice and reverts the linked order from invoiced
// back to completed in the same transaction.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to get invoice: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).UpdateStatus(ctx, invoice.OrderID, domain.OrderStatusCompleted); err != nil {
			return fmt.Errorf("failed to revert order status: %w", err)
		}
		if err := s.invoiceRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("invoice deleted",
		zap.String("invoice_id", id.String()),
		zap.String("invoice_number", invoice.InvoiceNumber))
	return nil
}

func (s *InvoiceService) reload(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}
