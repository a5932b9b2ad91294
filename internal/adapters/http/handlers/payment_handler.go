package handlers

import (
	"strconv"

	"arthi-backend/internal/adapters/http/middleware"
	"arthi-backend/internal/core/services"
	"arthi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles fee payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ApplicationFeeRequest represents checkout initiation request
type ApplicationFeeRequest struct {
	ApplicationID uint `json:"application_id"`
}

// ApplicationFee starts the fee checkout flow
// @Summary Pay application fee
// @Description Create a hosted checkout session for the application's processing fee (Borrower only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplicationFeeRequest true "Application"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /application-fee [post]
func (h *PaymentHandler) ApplicationFee(c *fiber.Ctx) error {
	var req ApplicationFeeRequest
	if err := c.BodyParser(&req); err != nil || req.ApplicationID == 0 {
		return response.BadRequest(c, "Application ID required")
	}

	actor := middleware.ActorFromCtx(c)

	url, err := h.paymentService.InitiateFeePayment(c.Context(), req.ApplicationID, actor.Email)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Checkout session created", fiber.Map{"url": url})
}

// PaymentSuccessRequest represents payment confirmation request
type PaymentSuccessRequest struct {
	SessionID string `json:"session_id"`
}

// PaymentSuccess confirms a completed checkout session.
// Idempotent: repeated calls with the same session ID return the original
// transaction and order identifiers.
// @Summary Confirm fee payment
// @Description Reconcile a completed checkout session with the payment ledger
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PaymentSuccessRequest true "Checkout session"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /payment-success [post]
func (h *PaymentHandler) PaymentSuccess(c *fiber.Ctx) error {
	var req PaymentSuccessRequest
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return response.BadRequest(c, "Session ID required")
	}

	result, err := h.paymentService.ConfirmFeePayment(c.Context(), req.SessionID)
	if err != nil {
		// Reconciliation faults fall through to the retriable 500
		return response.DomainError(c, err)
	}

	message := "Payment processed successfully"
	if result.AlreadyPaid {
		message = "Payment already processed"
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"transaction_id": result.TransactionID,
		"order_id":       result.OrderID,
		"message":        message,
	})
}

// PaymentInfo returns the ledger record for an application
// @Summary Get payment info
// @Description Ledger record for an application, or empty when unpaid
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Router /payment-info/{id} [get]
func (h *PaymentHandler) PaymentInfo(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	record, err := h.paymentService.GetPaymentInfo(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to get payment info")
	}

	return response.Success(c, "Payment info retrieved", fiber.Map{"payment": record})
}
