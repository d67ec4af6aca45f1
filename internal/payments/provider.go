// Package payments delegates payment-intent creation to a pluggable
// processor.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/Khairul-islam98/Contest-Hub-Server-Side/internal/config"
)

// ErrInvalidAmount rejects non-positive charge amounts before any call
// reaches the processor.
var ErrInvalidAmount = errors.New("amount must be at least one cent")

// Provider creates a payment intent and returns its client secret. The
// processor is an opaque collaborator; failures surface as-is.
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, amountCents int64) (clientSecret string, err error)
}

// NewProvider selects the configured payment provider.
func NewProvider(cfg config.Config) (Provider, error) {
	switch cfg.PaymentProvider {
	case config.ProviderStripe:
		return NewStripeProvider(cfg.StripeSecretKey), nil
	case config.ProviderStub:
		return NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.PaymentProvider)
	}
}
