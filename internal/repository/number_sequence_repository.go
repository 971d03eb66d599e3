package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nordvik-as/sales-api/internal/domain"
	"gorm.io/gorm"
)

// NumberSequenceRepository handles the durable per-kind counters behind
// document numbers. Issuance must never hand the same value to two
// concurrent callers, so the increment is a single UPDATE against the
// counter row rather than a read-then-write.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// WithTx returns a repository that issues numbers inside the given
// transaction. Callers already holding a transaction MUST use this instead
// of the root handle: beginning a second transaction from inside one waits
// for another pooled connection and can deadlock the pool.
func (r *NumberSequenceRepository) WithTx(tx *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: tx}
}

// NextValue atomically increments the counter for a kind and returns the new
// value. The UPDATE takes a row lock, so a concurrent caller blocks until
// this transaction commits and then increments on top of it. On a WithTx
// repository the increment joins the caller's transaction (gorm nests it as
// a savepoint), so the number commits or rolls back with the document. If no
// counter row exists yet, one is created; losing the creation race falls
// back to the increment path.
func (r *NumberSequenceRepository) NextValue(ctx context.Context, kind domain.DocumentKind) (int64, error) {
	var next int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.NumberSequence{}).
			Where("kind = ?", kind).
			Updates(map[string]interface{}{
				"last_value": gorm.Expr("last_value + 1"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to increment number sequence: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			seq := domain.NumberSequence{
				Kind:      string(kind),
				LastValue: 1,
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				// A concurrent request created the row first; increment it instead.
				retry := tx.Model(&domain.NumberSequence{}).
					Where("kind = ?", kind).
					Updates(map[string]interface{}{
						"last_value": gorm.Expr("last_value + 1"),
						"updated_at": time.Now(),
					})
				if retry.Error != nil || retry.RowsAffected == 0 {
					return fmt.Errorf("failed to create number sequence: %w", err)
				}
			} else {
				next = 1
				return nil
			}
		}

		var seq domain.NumberSequence
		if err := tx.Where("kind = ?", kind).First(&seq).Error; err != nil {
			return fmt.Errorf("failed to read number sequence: %w", err)
		}
		next = seq.LastValue
		return nil
	})

	if err != nil {
		return 0, err
	}

	return next, nil
}

// CurrentValue retrieves the last issued value without incrementing.
// Returns 0 if no counter exists for the kind.
func (r *NumberSequenceRepository) CurrentValue(ctx context.Context, kind domain.DocumentKind) (int64, error) {
	var seq domain.NumberSequence
	result := r.db.WithContext(ctx).Where("kind = ?", kind).First(&seq)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", result.Error)
	}

	return seq.LastValue, nil
}

// SetValue sets a counter to a specific value, used by data migrations to
// account for documents numbered before the counter existed. The counter is
// never lowered.
func (r *NumberSequenceRepository) SetValue(ctx context.Context, kind domain.DocumentKind, value int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		result := tx.Where("kind = ?", kind).First(&seq)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			seq = domain.NumberSequence{
				Kind:      string(kind),
				LastValue: value,
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			return nil
		}
		if result.Error != nil {
			return fmt.Errorf("failed to get number sequence: %w", result.Error)
		}

		if value > seq.LastValue {
			if err := tx.Model(&seq).Updates(map[string]interface{}{
				"last_value": value,
				"updated_at": time.Now(),
			}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
		}
		return nil
	})
}
