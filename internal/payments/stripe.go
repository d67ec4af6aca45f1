package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeProvider creates card payment intents in USD through Stripe.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateIntent(ctx context.Context, amountCents int64) (string, error) {
	if amountCents < 1 {
		return "", ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
