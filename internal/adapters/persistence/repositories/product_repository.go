package repositories

import (
	"context"

	"arthi-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// productRepository handles loan product data access
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new loan product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new loan product
func (r *productRepository) Create(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID gets a loan product by ID
func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.LoanProduct, error) {
	var product models.LoanProduct
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List lists loan products, optionally only those flagged for the home page
func (r *productRepository) List(ctx context.Context, homeOnly bool) ([]*models.LoanProduct, error) {
	var products []*models.LoanProduct
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if homeOnly {
		q = q.Where("show_on_home = ?", true)
	}
	err := q.Find(&products).Error
	return products, err
}

// Update updates a loan product
func (r *productRepository) Update(ctx context.Context, product *models.LoanProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft deletes a loan product
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LoanProduct{}, id).Error
}

// Count counts loan products
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanProduct{}).Count(&count).Error
	return count, err
}
