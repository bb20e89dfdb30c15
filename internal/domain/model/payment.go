package model

// PaymentMethodKind tags the variant carried by a PaymentMethod.
type PaymentMethodKind string

const (
	PaymentMethodCard   PaymentMethodKind = "card"
	PaymentMethodBank   PaymentMethodKind = "bank_account"
	PaymentMethodWallet PaymentMethodKind = "wallet"
)

// BankAccountType distinguishes the two bank-account tokenization payloads.
type BankAccountType string

const (
	BankAccountACH  BankAccountType = "ach"
	BankAccountSEPA BankAccountType = "sepa"
)

// CardDetails carries raw card fields to the provider's hosted-field token
// endpoint. The provider validates them itself; they are never persisted.
type CardDetails struct {
	Number string `json:"number"`
	Month  string `json:"month"`
	Year   string `json:"year"`
	CVV    string `json:"cvv"`
}

// BankAccountDetails carries ACH or SEPA fields. Confirm is the re-entered
// ACH account number; IBAN is SEPA-only and may contain display whitespace.
type BankAccountDetails struct {
	Type          BankAccountType `json:"type"`
	NameOnAccount string          `json:"name_on_account"`
	RoutingNumber string          `json:"routing_number"`
	AccountNumber string          `json:"account_number"`
	Confirm       string          `json:"account_number_confirmation"`
	AccountType   string          `json:"account_type"` // checking | savings
	IBAN          string          `json:"iban"`
}

// PaymentMethod is the tagged variant over the three tokenization flows.
// Exactly one of Card/Bank/WalletToken is meaningful for a given Kind.
type PaymentMethod struct {
	Kind        PaymentMethodKind   `json:"kind"`
	Card        *CardDetails        `json:"card,omitempty"`
	Bank        *BankAccountDetails `json:"bank,omitempty"`
	WalletToken string              `json:"walletToken,omitempty"` // token minted by the wallet sheet
}

// DemoToken is the sentinel submitted instead of a real token when the
// payment provider is unavailable and checkout runs in demo mode.
const DemoToken = "demo-token"
