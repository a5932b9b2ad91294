package repositories

import (
	"context"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/core/domain"

	"gorm.io/gorm"
)

// applicationRepository handles loan application data access
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new loan application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new loan application
func (r *applicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets a loan application by ID
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByRequester lists applications submitted by the given email
func (r *applicationRepository) ListByRequester(ctx context.Context, email string) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("request_by = ?", email).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListByStatus lists applications in the given status
func (r *applicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// List lists all applications with pagination
func (r *applicationRepository) List(ctx context.Context, offset, limit int) ([]*models.LoanApplication, int64, error) {
	var apps []*models.LoanApplication
	var total int64

	r.db.WithContext(ctx).Model(&models.LoanApplication{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// UpdateStatus flips the status with a guard on the current value so two
// concurrent transitions cannot both win.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.ApplicationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
