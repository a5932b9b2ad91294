package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"arthi-backend/internal/adapters/http/middleware"
	"arthi-backend/internal/adapters/payment"
	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/config"
	"arthi-backend/internal/core/domain"
	"arthi-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type stubGateway struct {
	sessions map[string]*payment.CheckoutSession
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, _ *payment.CreateSessionInput) (*payment.CheckoutSession, error) {
	return &payment.CheckoutSession{
		ID:     "cs_new",
		URL:    "https://checkout.example.com/cs_new",
		Status: payment.SessionStatusOpen,
	}, nil
}

func (g *stubGateway) RetrieveCheckoutSession(_ context.Context, sessionID string) (*payment.CheckoutSession, error) {
	if sess, ok := g.sessions[sessionID]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}

type stubApplicationRepo struct{}

func (s *stubApplicationRepo) Create(_ context.Context, _ *models.LoanApplication) error { return nil }

func (s *stubApplicationRepo) GetByID(_ context.Context, id uint) (*models.LoanApplication, error) {
	if id == 7 {
		return &models.LoanApplication{
			ID:        7,
			Title:     "Home Loan",
			RequestBy: "rahim@example.com",
			Status:    string(domain.StatusPending),
			FeeStatus: string(domain.FeeUnpaid),
		}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubApplicationRepo) ListByRequester(_ context.Context, _ string) ([]*models.LoanApplication, error) {
	return nil, nil
}

func (s *stubApplicationRepo) ListByStatus(_ context.Context, _ domain.ApplicationStatus) ([]*models.LoanApplication, error) {
	return nil, nil
}

func (s *stubApplicationRepo) List(_ context.Context, _, _ int) ([]*models.LoanApplication, int64, error) {
	return nil, 0, nil
}

func (s *stubApplicationRepo) UpdateStatus(_ context.Context, _ uint, _, _ domain.ApplicationStatus) (bool, error) {
	return true, nil
}

type stubPaymentRepo struct {
	byTx      map[string]*models.PaymentRecord
	nextID    uint
	recordErr error
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{byTx: map[string]*models.PaymentRecord{}, nextID: 500}
}

func (s *stubPaymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*models.PaymentRecord, error) {
	if rec, ok := s.byTx[transactionID]; ok {
		return rec, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) GetByApplicationID(_ context.Context, applicationID uint) (*models.PaymentRecord, error) {
	for _, rec := range s.byTx {
		if rec.ApplicationID == applicationID {
			return rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPaymentRepo) RecordFeePayment(_ context.Context, record *models.PaymentRecord) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	if _, ok := s.byTx[record.TransactionID]; ok {
		return domain.ErrDuplicateEntry
	}
	s.nextID++
	record.ID = s.nextID
	s.byTx[record.TransactionID] = record
	return nil
}

func completedSession(appID string) *payment.CheckoutSession {
	return &payment.CheckoutSession{
		ID:              "cs_done",
		Status:          payment.SessionStatusComplete,
		PaymentIntentID: "pi_abc123",
		CustomerEmail:   "rahim@example.com",
		AmountTotal:     1000,
		Metadata:        map[string]string{"application_id": appID},
	}
}

// paymentTestApp wires the real payment service over stub gateway and repos,
// with the verified identity pre-attached the way the authorization gate does.
func paymentTestApp(gw *stubGateway, payRepo *stubPaymentRepo) *fiber.App {
	cfg := &config.Config{
		ClientURL: "https://arthi.app",
		Stripe:    config.StripeConfig{Currency: "usd", FeeAmount: 1000},
	}
	svc := services.NewPaymentService(gw, &stubApplicationRepo{}, payRepo, cfg)
	h := NewPaymentHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalEmail, "rahim@example.com")
		return c.Next()
	})
	app.Post("/application-fee", h.ApplicationFee)
	app.Post("/payment-success", h.PaymentSuccess)
	app.Get("/payment-info/:id", h.PaymentInfo)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

type paymentSuccessBody struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	OrderID       uint   `json:"order_id"`
	Message       string `json:"message"`
}

func decodeSuccessBody(t *testing.T, resp *http.Response) paymentSuccessBody {
	t.Helper()
	var body paymentSuccessBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestApplicationFeeEndpoint(t *testing.T) {
	app := paymentTestApp(&stubGateway{}, newStubPaymentRepo())

	resp := postJSON(t, app, "/application-fee", fiber.Map{"application_id": 7})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.Data.URL == "" {
		t.Errorf("expected a checkout URL, got %+v", body)
	}
}

func TestApplicationFeeUnknownApplication(t *testing.T) {
	app := paymentTestApp(&stubGateway{}, newStubPaymentRepo())

	resp := postJSON(t, app, "/application-fee", fiber.Map{"application_id": 404})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestApplicationFeeMissingID(t *testing.T) {
	app := paymentTestApp(&stubGateway{}, newStubPaymentRepo())

	resp := postJSON(t, app, "/application-fee", fiber.Map{})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPaymentSuccessEndpoint(t *testing.T) {
	gw := &stubGateway{sessions: map[string]*payment.CheckoutSession{"cs_done": completedSession("7")}}
	payRepo := newStubPaymentRepo()
	app := paymentTestApp(gw, payRepo)

	resp := postJSON(t, app, "/payment-success", fiber.Map{"session_id": "cs_done"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	first := decodeSuccessBody(t, resp)
	if !first.Success || first.TransactionID != "pi_abc123" || first.OrderID == 0 {
		t.Fatalf("unexpected body: %+v", first)
	}
	if first.Message != "Payment processed successfully" {
		t.Errorf("message = %q", first.Message)
	}

	// Repeated confirmation: same identifiers, flagged as already processed
	resp = postJSON(t, app, "/payment-success", fiber.Map{"session_id": "cs_done"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("repeat status = %d, want 200", resp.StatusCode)
	}
	again := decodeSuccessBody(t, resp)
	if again.TransactionID != first.TransactionID || again.OrderID != first.OrderID {
		t.Errorf("repeat returned different identifiers: %+v vs %+v", again, first)
	}
	if again.Message != "Payment already processed" {
		t.Errorf("repeat message = %q", again.Message)
	}
	if len(payRepo.byTx) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(payRepo.byTx))
	}
}

func TestPaymentSuccessIncompleteSession(t *testing.T) {
	sess := completedSession("7")
	sess.Status = payment.SessionStatusOpen
	gw := &stubGateway{sessions: map[string]*payment.CheckoutSession{"cs_done": sess}}
	payRepo := newStubPaymentRepo()
	app := paymentTestApp(gw, payRepo)

	resp := postJSON(t, app, "/payment-success", fiber.Map{"session_id": "cs_done"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if len(payRepo.byTx) != 0 {
		t.Error("incomplete session must not produce a ledger row")
	}
}

func TestPaymentSuccessUnknownSession(t *testing.T) {
	app := paymentTestApp(&stubGateway{}, newStubPaymentRepo())

	resp := postJSON(t, app, "/payment-success", fiber.Map{"session_id": "cs_missing"})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPaymentSuccessUnknownApplication(t *testing.T) {
	gw := &stubGateway{sessions: map[string]*payment.CheckoutSession{"cs_done": completedSession("404")}}
	app := paymentTestApp(gw, newStubPaymentRepo())

	resp := postJSON(t, app, "/payment-success", fiber.Map{"session_id": "cs_done"})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPaymentSuccessMissingSessionID(t *testing.T) {
	app := paymentTestApp(&stubGateway{}, newStubPaymentRepo())

	resp := postJSON(t, app, "/payment-success", fiber.Map{})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPaymentSuccessTransientFailure(t *testing.T) {
	gw := &stubGateway{sessions: map[string]*payment.CheckoutSession{"cs_done": completedSession("7")}}
	payRepo := newStubPaymentRepo()
	payRepo.recordErr = errors.New("deadlock found when trying to get lock")
	app := paymentTestApp(gw, payRepo)

	resp := postJSON(t, app, "/payment-success", fiber.Map{"session_id": "cs_done"})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}

	// The 500 is retriable: the same session confirms once the fault clears
	payRepo.recordErr = nil
	resp = postJSON(t, app, "/payment-success", fiber.Map{"session_id": "cs_done"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("retry status = %d, want 200", resp.StatusCode)
	}
	body := decodeSuccessBody(t, resp)
	if body.Message != "Payment processed successfully" {
		t.Errorf("retry message = %q", body.Message)
	}
}

func TestPaymentInfoUnpaid(t *testing.T) {
	app := paymentTestApp(&stubGateway{}, newStubPaymentRepo())

	req := httptest.NewRequest(fiber.MethodGet, "/payment-info/7", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Payment *models.PaymentRecord `json:"payment"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Payment != nil {
		t.Errorf("unpaid application should return no payment record, got %+v", body.Data.Payment)
	}
}
