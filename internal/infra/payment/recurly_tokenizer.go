package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bloom-subscription-storefront/internal/domain/model"
	"bloom-subscription-storefront/internal/domain/ports/adapter"
)

var _ adapter.PaymentTokenizer = (*RecurlyTokenizer)(nil)

// RecurlyTokenizer exchanges payment fields for single-use tokens against
// the provider's public token endpoint using direct HTTP calls.
type RecurlyTokenizer struct {
	publicKey string
	baseURL   string
	client    *http.Client
}

// NewRecurlyTokenizer creates a tokenizer for the given public key.
// baseURL defaults to the production API host when empty.
func NewRecurlyTokenizer(publicKey, baseURL string) *RecurlyTokenizer {
	if baseURL == "" {
		baseURL = "https://api.recurly.com"
	}
	return &RecurlyTokenizer{
		publicKey: publicKey,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{},
	}
}

func (t *RecurlyTokenizer) Name() string { return "recurly" }

// tokenResponse is the provider's answer: a token id or a structured error.
type tokenResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Fields  []string `json:"fields"`
	} `json:"error"`
}

func (t *RecurlyTokenizer) TokenizeCard(ctx context.Context, card model.CardDetails, billing model.BillingAddress) (string, error) {
	form := t.billingForm(billing)
	form.Set("number", card.Number)
	form.Set("month", card.Month)
	form.Set("year", card.Year)
	form.Set("cvv", card.CVV)
	return t.post(ctx, form)
}

func (t *RecurlyTokenizer) TokenizeBankAccount(ctx context.Context, bank model.BankAccountDetails, billing model.BillingAddress) (string, error) {
	form := t.billingForm(billing)
	form.Set("name_on_account", bank.NameOnAccount)
	switch bank.Type {
	case model.BankAccountSEPA:
		form.Set("iban", strings.ReplaceAll(bank.IBAN, " ", ""))
	default:
		form.Set("routing_number", bank.RoutingNumber)
		form.Set("account_number", bank.AccountNumber)
		form.Set("account_number_confirmation", bank.Confirm)
		form.Set("account_type", bank.AccountType)
	}
	return t.post(ctx, form)
}

// WalletAvailable reports platform support for the device-wallet sheet.
// The server-side rendition has no device surface, so the wallet flow is
// only offered when the caller already holds a wallet-minted token.
func (t *RecurlyTokenizer) WalletAvailable(ctx context.Context) bool { return false }

func (t *RecurlyTokenizer) billingForm(billing model.BillingAddress) url.Values {
	form := url.Values{}
	form.Set("key", t.publicKey)
	form.Set("first_name", billing.FirstName)
	form.Set("last_name", billing.LastName)
	form.Set("address1", billing.Address1)
	if billing.Address2 != "" {
		form.Set("address2", billing.Address2)
	}
	form.Set("city", billing.City)
	form.Set("state", billing.State)
	form.Set("postal_code", billing.Zip)
	form.Set("country", billing.Country)
	return form
}

func (t *RecurlyTokenizer) post(ctx context.Context, form url.Values) (string, error) {
	endpoint := t.baseURL + "/js/v1/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if parsed.Error != nil {
		return "", &adapter.TokenizationError{Message: parsed.Error.Message}
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("provider returned empty token id, status %d", resp.StatusCode)
	}
	return parsed.ID, nil
}
