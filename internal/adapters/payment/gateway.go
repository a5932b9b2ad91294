package payment

import "context"

// Session statuses reported by the gateway
const (
	SessionStatusOpen     = "open"
	SessionStatusComplete = "complete"
	SessionStatusExpired  = "expired"
)

// CheckoutSession is the gateway-neutral view of a hosted checkout session
type CheckoutSession struct {
	ID              string
	URL             string
	Status          string
	PaymentIntentID string
	CustomerEmail   string
	AmountTotal     int64 // minor units
	Metadata        map[string]string
}

// CreateSessionInput describes a checkout session to create
type CreateSessionInput struct {
	ProductName   string
	CustomerEmail string
	Amount        int64 // minor units
	Currency      string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Gateway wraps the hosted checkout session API of the payment provider
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, input *CreateSessionInput) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
