package payment

import (
	"context"
	"fmt"
	"sync"

	"bloom-subscription-storefront/internal/domain/model"
	"bloom-subscription-storefront/internal/domain/ports/adapter"
)

var _ adapter.PaymentTokenizer = (*NoopTokenizer)(nil)

// NoopTokenizer mints fake tokens in memory. Used in tests and wired in
// demo mode so the checkout orchestrator always has a tokenizer, even
// though demo submissions never call it.
type NoopTokenizer struct {
	mu     sync.Mutex
	seq    int64
	Wallet bool // report wallet support
}

func NewNoopTokenizer() *NoopTokenizer { return &NoopTokenizer{} }

func (t *NoopTokenizer) Name() string { return "noop" }

func (t *NoopTokenizer) next(kind string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	return fmt.Sprintf("noop-%s-%d", kind, t.seq)
}

func (t *NoopTokenizer) TokenizeCard(ctx context.Context, card model.CardDetails, billing model.BillingAddress) (string, error) {
	if card.Number == "" {
		return "", &adapter.TokenizationError{Message: "card number is required"}
	}
	return t.next("card"), nil
}

func (t *NoopTokenizer) TokenizeBankAccount(ctx context.Context, bank model.BankAccountDetails, billing model.BillingAddress) (string, error) {
	if bank.NameOnAccount == "" {
		return "", &adapter.TokenizationError{Message: "name on account is required"}
	}
	return t.next("bank"), nil
}

func (t *NoopTokenizer) WalletAvailable(ctx context.Context) bool { return t.Wallet }
