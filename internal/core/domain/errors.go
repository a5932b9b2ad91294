package domain

import "errors"

// Common domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrDuplicateEntry  = errors.New("duplicate entry")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidStatus   = errors.New("invalid application status")
)

// Application lifecycle errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// Payment reconciliation errors
var (
	ErrSessionNotFound      = errors.New("checkout session not found")
	ErrPaymentIncomplete    = errors.New("payment not completed")
	ErrSessionNotLinked     = errors.New("checkout session has no application reference")
	ErrReconciliationFailed = errors.New("payment reconciliation failed")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserSuspended     = errors.New("user account is suspended")
)
