package domain

import "time"

// Role represents a user role in the system
type Role string

const (
	RoleBorrower Role = "borrower"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string coming from a request or the database
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBorrower, RoleManager, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// IsStaff returns true for roles allowed to review applications
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}

// AccountStatus represents a user account status
type AccountStatus string

const (
	AccountPending   AccountStatus = "pending"
	AccountApproved  AccountStatus = "approved"
	AccountSuspended AccountStatus = "suspended"
)

// ApplicationStatus represents a loan application status
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
	StatusCanceled ApplicationStatus = "canceled"
)

// ParseApplicationStatus validates a raw status string at a boundary
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCanceled:
		return ApplicationStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// transitions is the closed edge table for application statuses.
// pending is the only non-terminal state.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending: {StatusApproved, StatusRejected, StatusCanceled},
}

// CanTransitionTo reports whether the status edge is legal
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// FeeStatus represents the processing-fee sub-state of an application.
// One-way: unpaid -> paid, advanced only by the payment reconciler.
type FeeStatus string

const (
	FeeUnpaid FeeStatus = "unpaid"
	FeePaid   FeeStatus = "paid"
)

// Actor is the verified caller identity attached by the authorization gate
type Actor struct {
	UserID uint
	Email  string
	Role   Role
}

// User represents a user in the domain layer
type User struct {
	ID            uint
	Email         string
	Name          string
	Image         string
	Role          Role
	Status        AccountStatus
	SuspendReason string
	CreatedAt     time.Time
	LastLoginAt   time.Time
}

// LoanApplication represents a loan application in the domain layer
type LoanApplication struct {
	ID            uint
	LoanID        uint
	Title         string
	Category      string
	InterestRate  float64
	RequestBy     string
	Status        ApplicationStatus
	FeeStatus     FeeStatus
	TransactionID string
	PaymentDate   *time.Time
	CreatedAt     time.Time
}

// PaymentRecord represents a ledger entry for a completed fee payment.
// Append-only; exactly one per completed checkout session.
type PaymentRecord struct {
	ID            uint
	ApplicationID uint
	TransactionID string
	Customer      string
	Amount        float64
	PaymentDate   time.Time
	Status        string
}
