package models

import (
	"time"

	"arthi-backend/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Users & Auth Tables
// ============================================================

// User represents users table
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Email         string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name          string         `gorm:"size:100" json:"name"`
	Image         string         `gorm:"size:255" json:"image"`
	Role          string         `gorm:"size:20;default:'borrower'" json:"role"`
	Status        string         `gorm:"size:20;default:'approved'" json:"status"`
	SuspendReason string         `gorm:"size:255" json:"suspend_reason,omitempty"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	LastLoginAt   time.Time      `json:"last_login_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	SuspendReason string    `json:"suspend_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	LastLoginAt   time.Time `json:"last_login_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Image:         u.Image,
		Role:          u.Role,
		Status:        u.Status,
		SuspendReason: u.SuspendReason,
		CreatedAt:     u.CreatedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Loan Product Tables
// ============================================================

// LoanProduct represents loan_products table
type LoanProduct struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Title             string         `gorm:"size:100;not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Category          string         `gorm:"size:50;index" json:"category"`
	InterestRate      float64        `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	MaxLoanLimit      float64        `gorm:"type:decimal(12,2);not null" json:"max_loan_limit"`
	RequiredDocuments string         `gorm:"type:text" json:"required_documents"`
	EMIPlans          int            `gorm:"column:emi_plans" json:"emi_plans"`
	ShowOnHome        bool           `gorm:"default:false" json:"show_on_home"`
	Image             string         `gorm:"size:255" json:"image"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanProduct) TableName() string {
	return "loan_products"
}

// ============================================================
// Loan Application Table
// ============================================================

// LoanApplication represents loan_applications table.
// Product fields are snapshots copied at submission time; status and
// fee_status are separate sub-states (see domain package).
type LoanApplication struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	LoanID        uint    `gorm:"index;not null" json:"loan_id"`
	Title         string  `gorm:"size:100;not null" json:"title"`
	Category      string  `gorm:"size:50" json:"category"`
	InterestRate  float64 `gorm:"type:decimal(5,2)" json:"interest_rate"`
	FirstName     string  `gorm:"size:50;not null" json:"first_name"`
	LastName      string  `gorm:"size:50;not null" json:"last_name"`
	Address       string  `gorm:"size:255" json:"address"`
	ContactNo     string  `gorm:"size:30" json:"contact_no"`
	NIDNo         string  `gorm:"size:30" json:"nid_no"`
	IncomeSource  string  `gorm:"size:100" json:"income_source"`
	MonthlyIncome float64 `gorm:"type:decimal(12,2)" json:"monthly_income"`
	LoanAmount    float64 `gorm:"type:decimal(12,2);not null" json:"loan_amount"`
	LoanReason    string  `gorm:"type:text" json:"loan_reason"`
	Notes         string  `gorm:"type:text" json:"notes"`
	RequestBy     string  `gorm:"size:100;index;not null" json:"request_by"`
	Status        string  `gorm:"size:20;default:'pending';index" json:"status"`
	FeeStatus     string  `gorm:"size:20;default:'unpaid'" json:"fee_status"`
	// TransactionID is set exactly once when the fee is reconciled; unique
	// across applications because the gateway assigns it per completed payment.
	TransactionID *string    `gorm:"size:100;uniqueIndex" json:"transaction_id,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// ToDomain converts the stored row into a domain application
func (a *LoanApplication) ToDomain() *domain.LoanApplication {
	app := &domain.LoanApplication{
		ID:           a.ID,
		LoanID:       a.LoanID,
		Title:        a.Title,
		Category:     a.Category,
		InterestRate: a.InterestRate,
		RequestBy:    a.RequestBy,
		Status:       domain.ApplicationStatus(a.Status),
		FeeStatus:    domain.FeeStatus(a.FeeStatus),
		PaymentDate:  a.PaymentDate,
		CreatedAt:    a.CreatedAt,
	}
	if a.TransactionID != nil {
		app.TransactionID = *a.TransactionID
	}
	return app
}

// ============================================================
// Payment Ledger Table
// ============================================================

// PaymentRecord represents payment_received table (append-only ledger).
// The unique index on transaction_id is the idempotency guard for the
// reconciler: a duplicate confirmation loses at the store, not in process.
type PaymentRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"index;not null" json:"application_id"`
	TransactionID string    `gorm:"size:100;uniqueIndex;not null" json:"transaction_id"`
	Customer      string    `gorm:"size:100;not null" json:"customer"`
	Amount        float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate   time.Time `gorm:"not null" json:"payment_date"`
	Status        string    `gorm:"size:20;default:'completed'" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_received"
}

// AutoMigrate migrates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&LoanProduct{},
		&LoanApplication{},
		&PaymentRecord{},
	)
}
