package adapter

import (
	"context"

	"bloom-subscription-storefront/internal/domain/model"
)

// TokenizationError carries the provider's own message so it can be shown
// to the user verbatim.
type TokenizationError struct {
	Message string
}

func (e *TokenizationError) Error() string { return e.Message }

// PaymentTokenizer is the port over the hosted-fields payment provider.
// Each call is single-shot: one token or one error, no partial results.
// The billing address must already be synchronized when a token is
// requested, because the provider reads it at tokenization time.
type PaymentTokenizer interface {
	Name() string
	// TokenizeCard exchanges raw card fields for a single-use token.
	// The provider validates the card fields itself.
	TokenizeCard(ctx context.Context, card model.CardDetails, billing model.BillingAddress) (token string, err error)
	// TokenizeBankAccount exchanges an ACH or SEPA payload for a token.
	TokenizeBankAccount(ctx context.Context, bank model.BankAccountDetails, billing model.BillingAddress) (token string, err error)
	// WalletAvailable reports whether the device-wallet flow is offered.
	WalletAvailable(ctx context.Context) bool
}
