// Package payment abstracts the hosted-checkout vendor. Handlers depend on
// the Provider interface so the vendor client is injected, never a package
// singleton.
package payment

import "context"

// CheckoutParams describes the single-line-item session to create.
type CheckoutParams struct {
	ProductID     string
	Title         string
	Description   string
	UnitAmount    int64
	Currency      string
	CustomerEmail string
	CustomerName  string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the vendor session as seen by this service.
type CheckoutSession struct {
	ID              string
	URL             string
	Paid            bool
	Expired         bool
	PaymentIntentID string
	AmountTotal     int64
	Currency        string
	CustomerEmail   string
	CustomerName    string
	Metadata        map[string]string
}

// Provider creates and inspects hosted checkout sessions.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}
