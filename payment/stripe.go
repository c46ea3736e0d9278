package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// StripeProvider implements Provider against the Stripe API through an
// explicit client instance.
type StripeProvider struct {
	api    *client.API
	logger *zap.Logger
}

func NewStripeProvider(apiKey string, logger *zap.Logger) *StripeProvider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api, logger: logger}
}

// findOrCreateCustomer reuses an existing Stripe customer for the email or
// creates one, so repeat buyers keep a single customer record.
func (p *StripeProvider) findOrCreateCustomer(ctx context.Context, email, name string) (string, error) {
	listParams := &stripe.CustomerListParams{}
	listParams.Context = ctx
	listParams.Email = stripe.String(email)
	listParams.Limit = stripe.Int64(1)

	it := p.api.Customers.List(listParams)
	for it.Next() {
		return it.Customer().ID, nil
	}
	if err := it.Err(); err != nil {
		return "", err
	}

	custParams := &stripe.CustomerParams{Email: stripe.String(email)}
	custParams.Context = ctx
	if name != "" {
		custParams.Name = stripe.String(name)
	}
	cust, err := p.api.Customers.New(custParams)
	if err != nil {
		return "", err
	}
	p.logger.Info("Created Stripe customer", zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, cp CheckoutParams) (*CheckoutSession, error) {
	customerID, err := p.findOrCreateCustomer(ctx, cp.CustomerEmail, cp.CustomerName)
	if err != nil {
		return nil, err
	}

	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(cp.Title),
	}
	if cp.Description != "" {
		productData.Description = stripe.String(cp.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:   stripe.String(customerID),
		SuccessURL: stripe.String(cp.SuccessURL),
		CancelURL:  stripe.String(cp.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(cp.Currency),
					UnitAmount:  stripe.Int64(cp.UnitAmount),
					ProductData: productData,
				},
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("product_id", cp.ProductID)

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(s), nil
}

func (p *StripeProvider) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripeSession(s), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:          s.ID,
		URL:         s.URL,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired:     s.Status == stripe.CheckoutSessionStatusExpired,
		AmountTotal: s.AmountTotal,
		Currency:    string(s.Currency),
		Metadata:    s.Metadata,
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
		out.CustomerName = s.CustomerDetails.Name
	}
	return out
}
