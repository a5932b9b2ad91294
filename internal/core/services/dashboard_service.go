package services

import (
	"context"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates read-only counters for the staff dashboard
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Summary represents dashboard summary counters
type Summary struct {
	TotalUsers           int64            `json:"total_users"`
	UsersByRole          map[string]int64 `json:"users_by_role"`
	TotalApplications    int64            `json:"total_applications"`
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	FeesPaid             int64            `json:"fees_paid"`
	FeesCollected        float64          `json:"fees_collected"`
	TotalProducts        int64            `json:"total_products"`
}

type groupCount struct {
	Key   string
	Count int64
}

// GetSummary builds the dashboard summary
func (s *DashboardService) GetSummary(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		UsersByRole:          map[string]int64{},
		ApplicationsByStatus: map[string]int64{},
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&summary.TotalUsers).Error; err != nil {
		return nil, err
	}

	var roleCounts []groupCount
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("role AS `key`, COUNT(*) AS count").
		Group("role").
		Scan(&roleCounts).Error; err != nil {
		return nil, err
	}
	for _, rc := range roleCounts {
		summary.UsersByRole[rc.Key] = rc.Count
	}

	if err := s.db.WithContext(ctx).Model(&models.LoanApplication{}).Count(&summary.TotalApplications).Error; err != nil {
		return nil, err
	}

	var statusCounts []groupCount
	if err := s.db.WithContext(ctx).Model(&models.LoanApplication{}).
		Select("status AS `key`, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		summary.ApplicationsByStatus[sc.Key] = sc.Count
	}

	if err := s.db.WithContext(ctx).Model(&models.LoanApplication{}).
		Where("fee_status = ?", string(domain.FeePaid)).
		Count(&summary.FeesPaid).Error; err != nil {
		return nil, err
	}

	var collected *float64
	if err := s.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Select("SUM(amount)").
		Scan(&collected).Error; err != nil {
		return nil, err
	}
	if collected != nil {
		summary.FeesCollected = *collected
	}

	if err := s.db.WithContext(ctx).Model(&models.LoanProduct{}).Count(&summary.TotalProducts).Error; err != nil {
		return nil, err
	}

	return summary, nil
}
