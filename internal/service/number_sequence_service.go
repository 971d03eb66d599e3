package service

import (
	"context"
	"fmt"

	"github.com/nordvik-as/sales-api/internal/domain"
	"github.com/nordvik-as/sales-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NumberSequenceService issues unique, human-readable document numbers.
// Each document kind has an independent durable counter.
//
// Format: {PREFIX}-{SEQUENCE}
// Example: QUO-00042, ORD-00007, INV-00013
//
// Standalone issuance runs in its own transaction against the counter row;
// a number issued for an operation that later rolls back is simply never
// used. Gaps are acceptable, duplicates are not. Callers already inside a
// transaction must issue through WithTx so the increment joins it instead
// of waiting on a second pooled connection.
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
	}
}

// WithTx returns a service that issues numbers inside the given transaction.
func (s *NumberSequenceService) WithTx(tx *gorm.DB) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   s.repo.WithTx(tx),
		logger: s.logger,
	}
}

// GenerateQuoteNumber issues the next quote number, e.g. "QUO-00042".
func (s *NumberSequenceService) GenerateQuoteNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, domain.DocumentKindQuote)
}

// GenerateOrderNumber issues the next order number, e.g. "ORD-00042".
func (s *NumberSequenceService) GenerateOrderNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, domain.DocumentKindOrder)
}

// GenerateInvoiceNumber issues the next invoice number, e.g. "INV-00042".
func (s *NumberSequenceService) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	return s.generateNumber(ctx, domain.DocumentKindInvoice)
}

func (s *NumberSequenceService) generateNumber(ctx context.Context, kind domain.DocumentKind) (string, error) {
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: unknown document kind %q", ErrInvalidInput, kind)
	}

	next, err := s.repo.NextValue(ctx, kind)
	if err != nil {
		s.logger.Error("failed to get next sequence value",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", kind, err)
	}

	number := fmt.Sprintf("%s-%05d", kind.Prefix(), next)

	s.logger.Info("generated document number",
		zap.String("number", number),
		zap.String("kind", string(kind)),
		zap.Int64("sequence", next))

	return number, nil
}

// GetCurrentValue returns the last issued value for a kind without
// incrementing it. Returns 0 if no counter exists.
func (s *NumberSequenceService) GetCurrentValue(ctx context.Context, kind domain.DocumentKind) (int64, error) {
	return s.repo.CurrentValue(ctx, kind)
}

// InitializeSequence sets a counter to a specific value, used by data
// migrations so the counter accounts for documents numbered elsewhere.
// The value should be the LAST USED sequence number.
func (s *NumberSequenceService) InitializeSequence(ctx context.Context, kind domain.DocumentKind, value int64) error {
	return s.repo.SetValue(ctx, kind, value)
}
