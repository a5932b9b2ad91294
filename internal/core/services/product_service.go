package services

import (
	"context"
	"errors"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Product service errors
var (
	ErrProductNotFound = errors.New("loan product not found")
	ErrInvalidRate     = errors.New("interest rate must not be negative")
	ErrInvalidLimit    = errors.New("max loan limit must not be negative")
)

// ProductService handles loan product business logic
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new loan product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents create loan product input
type CreateProductInput struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	InterestRate      float64 `json:"interest_rate"`
	MaxLoanLimit      float64 `json:"max_loan_limit"`
	RequiredDocuments string  `json:"required_documents"`
	EMIPlans          int     `json:"emi_plans"`
	ShowOnHome        bool    `json:"show_on_home"`
	Image             string  `json:"image,omitempty"`
}

// UpdateProductInput represents update loan product input
type UpdateProductInput struct {
	Title             *string  `json:"title"`
	Description       *string  `json:"description"`
	Category          *string  `json:"category"`
	InterestRate      *float64 `json:"interest_rate"`
	MaxLoanLimit      *float64 `json:"max_loan_limit"`
	RequiredDocuments *string  `json:"required_documents"`
	EMIPlans          *int     `json:"emi_plans"`
	ShowOnHome        *bool    `json:"show_on_home"`
	Image             *string  `json:"image"`
}

// Create creates a new loan product
func (s *ProductService) Create(ctx context.Context, input *CreateProductInput) (*models.LoanProduct, error) {
	if input.InterestRate < 0 {
		return nil, ErrInvalidRate
	}
	if input.MaxLoanLimit < 0 {
		return nil, ErrInvalidLimit
	}

	product := &models.LoanProduct{
		Title:             input.Title,
		Description:       input.Description,
		Category:          input.Category,
		InterestRate:      input.InterestRate,
		MaxLoanLimit:      input.MaxLoanLimit,
		RequiredDocuments: input.RequiredDocuments,
		EMIPlans:          input.EMIPlans,
		ShowOnHome:        input.ShowOnHome,
		Image:             input.Image,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID gets a loan product by ID
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// List lists loan products
func (s *ProductService) List(ctx context.Context, homeOnly bool) ([]*models.LoanProduct, error) {
	return s.productRepo.List(ctx, homeOnly)
}

// Update applies a partial update to a loan product
func (s *ProductService) Update(ctx context.Context, id uint, input *UpdateProductInput) (*models.LoanProduct, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.InterestRate != nil {
		if *input.InterestRate < 0 {
			return nil, ErrInvalidRate
		}
		product.InterestRate = *input.InterestRate
	}
	if input.MaxLoanLimit != nil {
		if *input.MaxLoanLimit < 0 {
			return nil, ErrInvalidLimit
		}
		product.MaxLoanLimit = *input.MaxLoanLimit
	}
	if input.RequiredDocuments != nil {
		product.RequiredDocuments = *input.RequiredDocuments
	}
	if input.EMIPlans != nil {
		product.EMIPlans = *input.EMIPlans
	}
	if input.ShowOnHome != nil {
		product.ShowOnHome = *input.ShowOnHome
	}
	if input.Image != nil {
		product.Image = *input.Image
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete deletes a loan product
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
