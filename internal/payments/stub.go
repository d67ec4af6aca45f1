package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// StubProvider hands out locally generated secrets so development and tests
// never reach a real processor.
type StubProvider struct{}

func NewStubProvider() *StubProvider { return &StubProvider{} }

func (p *StubProvider) Name() string { return "stub" }

func (p *StubProvider) CreateIntent(ctx context.Context, amountCents int64) (string, error) {
	if amountCents < 1 {
		return "", ErrInvalidAmount
	}

	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate stub secret: %w", err)
	}
	return fmt.Sprintf("pi_stub_%d_secret_%s", amountCents, hex.EncodeToString(b)), nil
}
