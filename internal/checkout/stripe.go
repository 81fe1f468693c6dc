package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

const (
	productName        = "Donation to Free Resume Tools"
	productDescription = "Thank you for supporting our free tools!"
)

// StripeConfig configures the hosted checkout page.
type StripeConfig struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// StripeProvider creates Stripe Checkout sessions in payment mode.
type StripeProvider struct {
	cfg    StripeConfig
	client *session.Client
}

func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &StripeProvider{
		cfg:    cfg,
		client: &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey},
	}
}

// CreateSession opens a one-item donation checkout.
func (p *StripeProvider) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if strings.TrimSpace(p.cfg.SecretKey) == "" {
		return Session{}, errors.New("stripe secret key is not configured")
	}

	params := sessionParams(p.cfg, req)
	params.Context = ctx

	s, err := p.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return Session{}, errors.New(stripeErr.Msg)
		}
		return Session{}, err
	}
	return Session{URL: s.URL, ID: s.ID}, nil
}

func sessionParams(cfg StripeConfig, req SessionRequest) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName),
						Description: stripe.String(productDescription),
					},
					UnitAmount: stripe.Int64(req.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(cfg.SuccessURL),
		CancelURL:  stripe.String(cfg.CancelURL),
	}
}
