package repositories

import (
	"context"
	"errors"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository handles payment ledger data access
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// GetByTransactionID gets a ledger record by the gateway transaction ID
func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByApplicationID gets a ledger record by application ID
func (r *paymentRepository) GetByApplicationID(ctx context.Context, applicationID uint) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RecordFeePayment inserts the ledger row and marks the application's fee as
// paid in a single transaction. The unique index on transaction_id makes a
// duplicate confirmation fail the insert instead of double-recording; the
// fee update is guarded on fee_status so the flag stays one-way.
func (r *paymentRepository) RecordFeePayment(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateEntry
			}
			return err
		}

		return tx.Model(&models.LoanApplication{}).
			Where("id = ? AND fee_status = ?", record.ApplicationID, string(domain.FeeUnpaid)).
			Updates(map[string]interface{}{
				"fee_status":     string(domain.FeePaid),
				"payment_date":   record.PaymentDate,
				"transaction_id": record.TransactionID,
			}).Error
	})
}
