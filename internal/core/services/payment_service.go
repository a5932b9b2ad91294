package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"arthi-backend/internal/adapters/payment"
	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/adapters/persistence/repositories"
	"arthi-backend/internal/config"
	"arthi-backend/internal/core/domain"

	"gorm.io/gorm"
)

// metadataApplicationID tags checkout sessions with the application they pay
// for, so confirmation never depends on client-supplied state.
const metadataApplicationID = "application_id"

// PaymentService reconciles gateway checkout sessions with the ledger
type PaymentService struct {
	gateway         payment.Gateway
	applicationRepo repositories.ApplicationRepository
	paymentRepo     repositories.PaymentRepository
	cfg             *config.Config
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	gateway payment.Gateway,
	applicationRepo repositories.ApplicationRepository,
	paymentRepo repositories.PaymentRepository,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		gateway:         gateway,
		applicationRepo: applicationRepo,
		paymentRepo:     paymentRepo,
		cfg:             cfg,
	}
}

// ConfirmResult is the outcome of a (possibly repeated) fee confirmation
type ConfirmResult struct {
	TransactionID string `json:"transaction_id"`
	OrderID       uint   `json:"order_id"`
	AlreadyPaid   bool   `json:"already_paid"`
}

// InitiateFeePayment creates a checkout session for the application's
// processing fee and returns the hosted checkout URL. No local state changes
// until the gateway independently confirms completion.
func (s *PaymentService) InitiateFeePayment(ctx context.Context, applicationID uint, payerEmail string) (string, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrApplicationNotFound
		}
		return "", err
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, &payment.CreateSessionInput{
		ProductName:   app.Title + " fee",
		CustomerEmail: payerEmail,
		Amount:        s.cfg.Stripe.FeeAmount,
		Currency:      s.cfg.Stripe.Currency,
		Metadata: map[string]string{
			metadataApplicationID: strconv.FormatUint(uint64(app.ID), 10),
		},
		SuccessURL: s.cfg.ClientURL + "/dashboard/loan-applications/success-payment?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.cfg.ClientURL + "/dashboard/my-loans/" + payerEmail,
	})
	if err != nil {
		return "", fmt.Errorf("initiate fee payment: %w", err)
	}

	return sess.URL, nil
}

// ConfirmFeePayment turns a completed checkout session into exactly one
// ledger entry and one fee-status flip. Safe to call any number of times with
// the same session ID: the gateway's transaction ID is the ledger's natural
// key, so repeats converge on the first result.
func (s *PaymentService) ConfirmFeePayment(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	sess, err := s.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Status != payment.SessionStatusComplete {
		return nil, domain.ErrPaymentIncomplete
	}

	// The session's own metadata is the only trusted link to the application
	rawID, ok := sess.Metadata[metadataApplicationID]
	if !ok || rawID == "" {
		return nil, domain.ErrSessionNotLinked
	}
	applicationID64, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return nil, domain.ErrSessionNotLinked
	}
	applicationID := uint(applicationID64)

	if _, err := s.applicationRepo.GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	// Fast path: a previous confirmation already recorded this transaction
	existing, err := s.paymentRepo.GetByTransactionID(ctx, sess.PaymentIntentID)
	if err == nil {
		return &ConfirmResult{
			TransactionID: existing.TransactionID,
			OrderID:       existing.ID,
			AlreadyPaid:   true,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrReconciliationFailed, err)
	}

	record := &models.PaymentRecord{
		ApplicationID: applicationID,
		TransactionID: sess.PaymentIntentID,
		Customer:      sess.CustomerEmail,
		Amount:        float64(sess.AmountTotal) / 100,
		PaymentDate:   time.Now(),
		Status:        "completed",
	}

	if err := s.paymentRepo.RecordFeePayment(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			// Lost the race against a concurrent confirmation of the same
			// session; the winner's row is the result.
			winner, lookupErr := s.paymentRepo.GetByTransactionID(ctx, sess.PaymentIntentID)
			if lookupErr != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrReconciliationFailed, lookupErr)
			}
			return &ConfirmResult{
				TransactionID: winner.TransactionID,
				OrderID:       winner.ID,
				AlreadyPaid:   true,
			}, nil
		}
		log.Printf("❌ Payment reconciliation failed [session=%s tx=%s app=%d]: %v",
			sessionID, sess.PaymentIntentID, applicationID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrReconciliationFailed, err)
	}

	return &ConfirmResult{
		TransactionID: record.TransactionID,
		OrderID:       record.ID,
	}, nil
}

// GetPaymentInfo returns the ledger record for an application, or nil when
// the fee has not been paid.
func (s *PaymentService) GetPaymentInfo(ctx context.Context, applicationID uint) (*models.PaymentRecord, error) {
	record, err := s.paymentRepo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
