package config

import (
	"log"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/core/domain"
	"arthi-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedLoanProducts(); err != nil {
		log.Printf("⚠️ Loan product seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin account.
// Admin accounts are never created through registration, only here.
// For development/testing only; in production create the admin through a
// secure process.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:    "admin@arthi.app",
		Name:     "Platform Admin",
		Password: hashedPassword,
		Role:     string(domain.RoleAdmin),
		Status:   string(domain.AccountApproved),
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("🌱 Seeded default admin user")
	return nil
}

// seedLoanProducts seeds a starter loan product catalog when empty
func (s *Seeder) seedLoanProducts() error {
	var count int64
	s.db.Model(&models.LoanProduct{}).Count(&count)
	if count > 0 {
		return nil
	}

	products := []models.LoanProduct{
		{
			Title:             "Personal Loan",
			Description:       "General-purpose personal loan with flexible EMI plans",
			Category:          "personal",
			InterestRate:      9.5,
			MaxLoanLimit:      50000,
			RequiredDocuments: "national-id, proof-of-income",
			EMIPlans:          12,
			ShowOnHome:        true,
		},
		{
			Title:             "Small Business Loan",
			Description:       "Working-capital loan for small businesses",
			Category:          "business",
			InterestRate:      11.0,
			MaxLoanLimit:      200000,
			RequiredDocuments: "national-id, trade-license, bank-statement",
			EMIPlans:          24,
			ShowOnHome:        true,
		},
	}

	if err := s.db.Create(&products).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded %d loan products", len(products))
	return nil
}
