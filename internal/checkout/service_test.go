package checkout

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func amount(v float64) *float64 { return &v }

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(100), ToMinorUnits(1))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(250), ToMinorUnits(2.5))
}

func TestCreateValidatesAmount(t *testing.T) {
	svc := NewService(&fakeProvider{})

	for _, a := range []*float64{nil, amount(0.99), amount(math.NaN()), amount(math.Inf(1))} {
		_, err := svc.Create(context.Background(), a)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestCreateWrapsProviderError(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Create(context.Background(), amount(3))
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Failed to create checkout session", err.Error())
}

func TestStripeProviderRequiresKey(t *testing.T) {
	p := NewStripeProvider(StripeConfig{})
	_, err := p.CreateSession(context.Background(), SessionRequest{AmountMinor: 500})
	assert.Error(t, err)
}

func TestSessionParams(t *testing.T) {
	params := sessionParams(StripeConfig{
		Currency:   "usd",
		SuccessURL: "https://freeresumetools.io/donate?success=true",
		CancelURL:  "https://freeresumetools.io/donate?canceled=true",
	}, SessionRequest{AmountMinor: 1250})

	assert.Equal(t, string(stripe.CheckoutSessionModePayment), stripe.StringValue(params.Mode))
	require.Len(t, params.PaymentMethodTypes, 1)
	assert.Equal(t, "card", stripe.StringValue(params.PaymentMethodTypes[0]))
	require.Len(t, params.LineItems, 1)

	item := params.LineItems[0]
	assert.Equal(t, int64(1), stripe.Int64Value(item.Quantity))
	assert.Equal(t, int64(1250), stripe.Int64Value(item.PriceData.UnitAmount))
	assert.Equal(t, "usd", stripe.StringValue(item.PriceData.Currency))
	assert.Equal(t, "Donation to Free Resume Tools", stripe.StringValue(item.PriceData.ProductData.Name))
	assert.Equal(t, "Thank you for supporting our free tools!", stripe.StringValue(item.PriceData.ProductData.Description))
	assert.Equal(t, "https://freeresumetools.io/donate?success=true", stripe.StringValue(params.SuccessURL))
	assert.Equal(t, "https://freeresumetools.io/donate?canceled=true", stripe.StringValue(params.CancelURL))
}
