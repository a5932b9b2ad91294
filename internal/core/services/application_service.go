package services

import (
	"context"
	"errors"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/adapters/persistence/repositories"
	"arthi-backend/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicationService enforces the loan application lifecycle
type ApplicationService struct {
	applicationRepo repositories.ApplicationRepository
	productRepo     repositories.ProductRepository
}

// NewApplicationService creates a new application service
func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	productRepo repositories.ProductRepository,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		productRepo:     productRepo,
	}
}

// ApplyInput represents loan application input. Product snapshot fields
// (title, rate, category) are copied server-side, never taken from the client.
type ApplyInput struct {
	LoanID        uint    `json:"loan_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Address       string  `json:"address"`
	ContactNo     string  `json:"contact_no"`
	NIDNo         string  `json:"nid_no"`
	IncomeSource  string  `json:"income_source"`
	MonthlyIncome float64 `json:"monthly_income"`
	LoanAmount    float64 `json:"loan_amount"`
	LoanReason    string  `json:"loan_reason"`
	Notes         string  `json:"notes,omitempty"`
}

// Apply submits a new loan application for the verified caller.
// Status always starts pending and the fee unpaid.
func (s *ApplicationService) Apply(ctx context.Context, input *ApplyInput, requestBy string) (*models.LoanApplication, error) {
	product, err := s.productRepo.GetByID(ctx, input.LoanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.LoanAmount <= 0 {
		return nil, domain.ErrInvalidInput
	}

	app := &models.LoanApplication{
		LoanID:        product.ID,
		Title:         product.Title,
		Category:      product.Category,
		InterestRate:  product.InterestRate,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Address:       input.Address,
		ContactNo:     input.ContactNo,
		NIDNo:         input.NIDNo,
		IncomeSource:  input.IncomeSource,
		MonthlyIncome: input.MonthlyIncome,
		LoanAmount:    input.LoanAmount,
		LoanReason:    input.LoanReason,
		Notes:         input.Notes,
		RequestBy:     requestBy,
		Status:        string(domain.StatusPending),
		FeeStatus:     string(domain.FeeUnpaid),
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetByID gets a loan application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListByRequester lists the caller's own applications
func (s *ApplicationService) ListByRequester(ctx context.Context, email string) ([]*models.LoanApplication, error) {
	return s.applicationRepo.ListByRequester(ctx, email)
}

// ListByStatus lists applications in a given status
func (s *ApplicationService) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*models.LoanApplication, error) {
	return s.applicationRepo.ListByStatus(ctx, status)
}

// ListOutput represents a paginated application listing
type ListOutput struct {
	Applications []*models.LoanApplication `json:"applications"`
	Total        int64                     `json:"total"`
	Page         int                       `json:"page"`
	Limit        int                       `json:"limit"`
}

// List lists all applications with pagination
func (s *ApplicationService) List(ctx context.Context, page, limit int) (*ListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	apps, total, err := s.applicationRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Applications: apps, Total: total, Page: page, Limit: limit}, nil
}

// Transition moves an application along a legal status edge:
//
//	pending -> approved   (manager/admin)
//	pending -> rejected   (manager/admin)
//	pending -> canceled   (the submitting borrower only)
//
// The persisted update is guarded on the current status so a concurrent
// transition loses at the store rather than overwriting.
func (s *ApplicationService) Transition(ctx context.Context, id uint, target domain.ApplicationStatus, actor domain.Actor) (*models.LoanApplication, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current := domain.ApplicationStatus(app.Status)
	if !current.CanTransitionTo(target) {
		return nil, domain.ErrInvalidTransition
	}

	switch target {
	case domain.StatusApproved, domain.StatusRejected:
		if !actor.Role.IsStaff() {
			return nil, domain.ErrForbidden
		}
	case domain.StatusCanceled:
		if actor.Email != app.RequestBy {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrInvalidTransition
	}

	ok, err := s.applicationRepo.UpdateStatus(ctx, id, current, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race: the stored status changed under us
		return nil, domain.ErrInvalidTransition
	}

	app.Status = string(target)
	return app, nil
}
