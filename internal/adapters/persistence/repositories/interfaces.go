package repositories

import (
	"context"

	"arthi-backend/internal/adapters/persistence/models"
	"arthi-backend/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, email, name, image string) error
	TouchLastLogin(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ProductRepository defines loan product repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.LoanProduct) error
	GetByID(ctx context.Context, id uint) (*models.LoanProduct, error)
	List(ctx context.Context, homeOnly bool) ([]*models.LoanProduct, error)
	Update(ctx context.Context, product *models.LoanProduct) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// ApplicationRepository defines loan application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.LoanApplication) error
	GetByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	ListByRequester(ctx context.Context, email string) ([]*models.LoanApplication, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*models.LoanApplication, error)
	List(ctx context.Context, offset, limit int) ([]*models.LoanApplication, int64, error)
	// UpdateStatus flips status only when the stored status still equals from,
	// returning false when the guarded update matched no row.
	UpdateStatus(ctx context.Context, id uint, from, to domain.ApplicationStatus) (bool, error)
}

// PaymentRepository defines payment ledger repository interface
type PaymentRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error)
	GetByApplicationID(ctx context.Context, applicationID uint) (*models.PaymentRecord, error)
	// RecordFeePayment atomically inserts the ledger row and marks the
	// application's fee as paid. Returns domain.ErrDuplicateEntry when the
	// transaction ID already exists in the ledger.
	RecordFeePayment(ctx context.Context, record *models.PaymentRecord) error
}
