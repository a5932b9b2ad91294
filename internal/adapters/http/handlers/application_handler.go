package handlers

import (
	"errors"
	"strconv"

	"arthi-backend/internal/adapters/http/middleware"
	"arthi-backend/internal/core/domain"
	"arthi-backend/internal/core/services"
	"arthi-backend/internal/pkg/pagination"
	"arthi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles loan application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// Apply submits a loan application
// @Summary Apply for a loan
// @Description Submit a loan application (Borrower only). The applicant is the verified caller; status starts pending, fee unpaid.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ApplyInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /apply-loan [post]
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	var input services.ApplyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.LoanID == 0 {
		return response.BadRequest(c, "Loan product is required")
	}
	if input.FirstName == "" || input.LastName == "" {
		return response.BadRequest(c, "Applicant name is required")
	}

	actor := middleware.ActorFromCtx(c)

	app, err := h.applicationService.Apply(c.Context(), &input, actor.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return response.NotFound(c, "Loan product not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Loan amount must be greater than 0")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted", fiber.Map{
		"application_id": app.ID,
	})
}

// MyApplications lists the caller's own applications
// @Summary List own applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /my-applications [get]
func (h *ApplicationHandler) MyApplications(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	apps, err := h.applicationService.ListByRequester(c.Context(), actor.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved", fiber.Map{"applications": apps})
}

// Pending lists pending applications
// @Summary List pending applications
// @Description List applications awaiting review (Manager/Admin only)
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /pending-applications [get]
func (h *ApplicationHandler) Pending(c *fiber.Ctx) error {
	return h.listByStatus(c, domain.StatusPending)
}

// Approved lists approved applications
// @Summary List approved applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /approved-applications [get]
func (h *ApplicationHandler) Approved(c *fiber.Ctx) error {
	return h.listByStatus(c, domain.StatusApproved)
}

func (h *ApplicationHandler) listByStatus(c *fiber.Ctx, status domain.ApplicationStatus) error {
	apps, err := h.applicationService.ListByStatus(c.Context(), status)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}
	return response.Success(c, "Applications retrieved", fiber.Map{"applications": apps})
}

// List lists all applications with pagination
// @Summary List all applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.applicationService.List(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved", fiber.Map{
		"applications": result.Applications,
		"pagination":   pagination.GetMeta(params, result.Total),
	})
}

// TransitionRequest represents a status transition request
type TransitionRequest struct {
	Status string `json:"status"`
}

// Transition updates an application's status
// @Summary Transition application status
// @Description Approve/reject (Manager/Admin) or cancel (owning borrower) a pending application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /application/{id} [patch]
func (h *ApplicationHandler) Transition(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	target, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		return response.BadRequest(c, "Invalid target status")
	}

	actor := middleware.ActorFromCtx(c)

	app, err := h.applicationService.Transition(c.Context(), uint(id), target, actor)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Application updated", fiber.Map{"application": app})
}
