package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"arthi-backend/internal/adapters/payment"
	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/config"
	"arthi-backend/internal/core/domain"

	"gorm.io/gorm"
)

type mockGateway struct {
	sessions map[string]*payment.CheckoutSession

	lastCreateInput *payment.CreateSessionInput
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, input *payment.CreateSessionInput) (*payment.CheckoutSession, error) {
	m.lastCreateInput = input
	return &payment.CheckoutSession{
		ID:     "cs_test_1",
		URL:    "https://checkout.example.com/cs_test_1",
		Status: payment.SessionStatusOpen,
	}, nil
}

func (m *mockGateway) RetrieveCheckoutSession(_ context.Context, sessionID string) (*payment.CheckoutSession, error) {
	if sess, ok := m.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}

// mockPaymentRepo keeps an in-memory ledger keyed by transaction ID, so
// repeated confirmations exercise the same uniqueness rule as the real store.
// Guarded by a mutex so concurrent confirmations can run against it.
type mockPaymentRepo struct {
	mu     sync.Mutex
	byTx   map[string]*models.PaymentRecord
	nextID uint

	inserts   int
	recordErr error
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{byTx: map[string]*models.PaymentRecord{}, nextID: 100}
}

func (m *mockPaymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.byTx[transactionID]; ok {
		return rec, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) GetByApplicationID(_ context.Context, applicationID uint) (*models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.byTx {
		if rec.ApplicationID == applicationID {
			return rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) RecordFeePayment(_ context.Context, record *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	if _, ok := m.byTx[record.TransactionID]; ok {
		return domain.ErrDuplicateEntry
	}
	m.nextID++
	record.ID = m.nextID
	m.byTx[record.TransactionID] = record
	m.inserts++
	return nil
}

func (m *mockPaymentRepo) insertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts
}

func testConfig() *config.Config {
	return &config.Config{
		ClientURL: "https://arthi.app",
		Stripe: config.StripeConfig{
			Currency:  "usd",
			FeeAmount: 1000,
		},
	}
}

func completeSession(appID string) *payment.CheckoutSession {
	return &payment.CheckoutSession{
		ID:              "cs_done",
		Status:          payment.SessionStatusComplete,
		PaymentIntentID: "pi_abc123",
		CustomerEmail:   "rahim@example.com",
		AmountTotal:     1000,
		Metadata:        map[string]string{"application_id": appID},
	}
}

func paymentFixture(t *testing.T, sess *payment.CheckoutSession) (*PaymentService, *mockPaymentRepo) {
	t.Helper()

	gateway := &mockGateway{sessions: map[string]*payment.CheckoutSession{}}
	if sess != nil {
		gateway.sessions[sess.ID] = sess
	}
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id uint) (*models.LoanApplication, error) {
			if id == 7 {
				return pendingApp(7, "rahim@example.com"), nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	paymentRepo := newMockPaymentRepo()
	return NewPaymentService(gateway, appRepo, paymentRepo, testConfig()), paymentRepo
}

func TestInitiateFeePayment(t *testing.T) {
	gateway := &mockGateway{sessions: map[string]*payment.CheckoutSession{}}
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id uint) (*models.LoanApplication, error) {
			return pendingApp(id, "rahim@example.com"), nil
		},
	}
	svc := NewPaymentService(gateway, appRepo, newMockPaymentRepo(), testConfig())

	url, err := svc.InitiateFeePayment(context.Background(), 7, "rahim@example.com")
	if err != nil {
		t.Fatalf("InitiateFeePayment returned error: %v", err)
	}
	if url == "" {
		t.Fatal("expected a checkout URL")
	}

	input := gateway.lastCreateInput
	if input.Amount != 1000 || input.Currency != "usd" {
		t.Errorf("fee = %d %s, want 1000 usd", input.Amount, input.Currency)
	}
	// The session must carry the application reference itself
	if input.Metadata["application_id"] != "7" {
		t.Errorf("session metadata application_id = %q, want 7", input.Metadata["application_id"])
	}
}

func TestInitiateFeePaymentUnknownApplication(t *testing.T) {
	svc, _ := paymentFixture(t, nil)

	_, err := svc.InitiateFeePayment(context.Background(), 404, "rahim@example.com")
	if !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Errorf("got %v, want ErrApplicationNotFound", err)
	}
}

func TestConfirmFeePaymentRecordsOnce(t *testing.T) {
	svc, paymentRepo := paymentFixture(t, completeSession("7"))

	first, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}
	if first.AlreadyPaid {
		t.Error("first confirmation reported AlreadyPaid")
	}
	if first.TransactionID != "pi_abc123" {
		t.Errorf("transaction ID = %q, want pi_abc123", first.TransactionID)
	}

	rec := paymentRepo.byTx["pi_abc123"]
	if rec == nil {
		t.Fatal("no ledger row recorded")
	}
	if rec.Amount != 10.00 {
		t.Errorf("ledger amount = %.2f, want 10.00 (1000 minor units)", rec.Amount)
	}
	if rec.ApplicationID != 7 {
		t.Errorf("ledger application ID = %d, want 7", rec.ApplicationID)
	}

	// Repeats converge on the first result without a second insert
	for i := 0; i < 3; i++ {
		again, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
		if err != nil {
			t.Fatalf("repeat confirmation %d failed: %v", i, err)
		}
		if !again.AlreadyPaid {
			t.Errorf("repeat confirmation %d not flagged AlreadyPaid", i)
		}
		if again.TransactionID != first.TransactionID || again.OrderID != first.OrderID {
			t.Errorf("repeat confirmation %d returned different identifiers: %+v vs %+v", i, again, first)
		}
	}
	if paymentRepo.inserts != 1 {
		t.Errorf("ledger inserts = %d, want exactly 1", paymentRepo.inserts)
	}
}

func TestConfirmFeePaymentConcurrent(t *testing.T) {
	svc, paymentRepo := paymentFixture(t, completeSession("7"))

	const callers = 8
	results := make([]*ConfirmResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ConfirmFeePayment(context.Background(), "cs_done")
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i].TransactionID != "pi_abc123" {
			t.Errorf("caller %d transaction ID = %q", i, results[i].TransactionID)
		}
		if results[i].OrderID != results[0].OrderID {
			t.Errorf("caller %d order ID = %d, others got %d", i, results[i].OrderID, results[0].OrderID)
		}
		if !results[i].AlreadyPaid {
			fresh++
		}
	}
	if fresh != 1 {
		t.Errorf("fresh confirmations = %d, want exactly 1", fresh)
	}
	if paymentRepo.insertCount() != 1 {
		t.Errorf("ledger inserts = %d, want exactly 1", paymentRepo.insertCount())
	}
}

func TestConfirmFeePaymentIncompleteSession(t *testing.T) {
	sess := completeSession("7")
	sess.Status = payment.SessionStatusOpen
	svc, paymentRepo := paymentFixture(t, sess)

	_, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if !errors.Is(err, domain.ErrPaymentIncomplete) {
		t.Fatalf("got %v, want ErrPaymentIncomplete", err)
	}
	if paymentRepo.inserts != 0 {
		t.Error("incomplete session must not produce a ledger row")
	}
}

func TestConfirmFeePaymentUnknownSession(t *testing.T) {
	svc, _ := paymentFixture(t, nil)

	_, err := svc.ConfirmFeePayment(context.Background(), "cs_missing")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestConfirmFeePaymentMissingMetadata(t *testing.T) {
	sess := completeSession("7")
	sess.Metadata = map[string]string{}
	svc, _ := paymentFixture(t, sess)

	_, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if !errors.Is(err, domain.ErrSessionNotLinked) {
		t.Errorf("got %v, want ErrSessionNotLinked", err)
	}
}

func TestConfirmFeePaymentMalformedMetadata(t *testing.T) {
	sess := completeSession("not-a-number")
	svc, _ := paymentFixture(t, sess)

	_, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if !errors.Is(err, domain.ErrSessionNotLinked) {
		t.Errorf("got %v, want ErrSessionNotLinked", err)
	}
}

func TestConfirmFeePaymentUnknownApplication(t *testing.T) {
	svc, _ := paymentFixture(t, completeSession("404"))

	_, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Errorf("got %v, want ErrApplicationNotFound", err)
	}
}

func TestConfirmFeePaymentDuplicateRace(t *testing.T) {
	// A concurrent confirmation wins the insert between our fast-path lookup
	// and our write; the store's uniqueness rule rejects ours and we return
	// the winner's row.
	winner := &models.PaymentRecord{
		ID:            42,
		ApplicationID: 7,
		TransactionID: "pi_abc123",
		Customer:      "rahim@example.com",
		Amount:        10.00,
		PaymentDate:   time.Now(),
		Status:        "completed",
	}

	lookups := 0
	svc := NewPaymentService(
		&mockGateway{sessions: map[string]*payment.CheckoutSession{"cs_done": completeSession("7")}},
		&mockApplicationRepo{getByIDFn: func(id uint) (*models.LoanApplication, error) {
			return pendingApp(7, "rahim@example.com"), nil
		}},
		&raceyPaymentRepo{winner: winner, lookups: &lookups},
		testConfig(),
	)

	result, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if err != nil {
		t.Fatalf("confirmation should converge on the winner, got error: %v", err)
	}
	if !result.AlreadyPaid {
		t.Error("race loser must report AlreadyPaid")
	}
	if result.TransactionID != winner.TransactionID || result.OrderID != winner.ID {
		t.Errorf("result %+v does not match the winning row", result)
	}
}

// raceyPaymentRepo simulates losing an insert race: the transaction is absent
// on the first lookup, the insert hits the unique index, and the winner's row
// is visible afterwards.
type raceyPaymentRepo struct {
	winner  *models.PaymentRecord
	lookups *int
}

func (r *raceyPaymentRepo) GetByTransactionID(_ context.Context, _ string) (*models.PaymentRecord, error) {
	*r.lookups++
	if *r.lookups == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.winner, nil
}

func (r *raceyPaymentRepo) GetByApplicationID(_ context.Context, _ uint) (*models.PaymentRecord, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *raceyPaymentRepo) RecordFeePayment(_ context.Context, _ *models.PaymentRecord) error {
	return domain.ErrDuplicateEntry
}

func TestConfirmFeePaymentTransientFailure(t *testing.T) {
	svc, paymentRepo := paymentFixture(t, completeSession("7"))
	paymentRepo.recordErr = errors.New("deadlock found when trying to get lock")

	_, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if !errors.Is(err, domain.ErrReconciliationFailed) {
		t.Fatalf("got %v, want ErrReconciliationFailed", err)
	}

	// The session stays confirmable: a retry after the fault succeeds
	paymentRepo.recordErr = nil
	result, err := svc.ConfirmFeePayment(context.Background(), "cs_done")
	if err != nil {
		t.Fatalf("retry after transient failure failed: %v", err)
	}
	if result.AlreadyPaid {
		t.Error("retry after a failed insert is the first successful confirmation")
	}
	if paymentRepo.inserts != 1 {
		t.Errorf("ledger inserts = %d, want 1", paymentRepo.inserts)
	}
}

func TestGetPaymentInfoUnpaid(t *testing.T) {
	svc, _ := paymentFixture(t, nil)

	record, err := svc.GetPaymentInfo(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetPaymentInfo returned error: %v", err)
	}
	if record != nil {
		t.Errorf("unpaid application should return nil record, got %+v", record)
	}
}

func TestGetPaymentInfoPaid(t *testing.T) {
	svc, paymentRepo := paymentFixture(t, completeSession("7"))

	if _, err := svc.ConfirmFeePayment(context.Background(), "cs_done"); err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	record, err := svc.GetPaymentInfo(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetPaymentInfo returned error: %v", err)
	}
	if record == nil || record.TransactionID != "pi_abc123" {
		t.Errorf("got %+v, want the recorded ledger row", record)
	}
	if paymentRepo.inserts != 1 {
		t.Errorf("ledger inserts = %d, want 1", paymentRepo.inserts)
	}
}
