//go:build !integration

package usecase

import (
	"testing"

	"bloom-subscription-storefront/internal/domain/model"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	accept := []string{"a@b.co", "jane@example.com", "first.last@mail.example.org"}
	for _, s := range accept {
		if !ValidEmail(s) {
			t.Errorf("expected %q to be accepted", s)
		}
	}
	reject := []string{"a@b", "@b.co", "a@.co", "", "a b@c.co", "plain"}
	for _, s := range reject {
		if ValidEmail(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestValidZip(t *testing.T) {
	t.Parallel()

	if !ValidZip("10001") {
		t.Error("expected 5-digit zip to be accepted")
	}
	for _, s := range []string{"1000", "100012", "1000a", "abcde", ""} {
		if ValidZip(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestValidateDelivery_AggregatesAllFailures(t *testing.T) {
	t.Parallel()

	errs := ValidateDelivery(model.DeliveryInfo{Email: "a@b", Zip: "123"})
	want := map[string]bool{
		"firstName": false, "lastName": false, "email": false,
		"address1": false, "city": false, "state": false, "zip": false,
	}
	for _, e := range errs {
		if _, ok := want[e.Field]; !ok {
			t.Errorf("unexpected field in errors: %q", e.Field)
		}
		want[e.Field] = true
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("expected an error for field %q", field)
		}
	}
	if errs[0].Field != "firstName" {
		t.Errorf("expected first failing field to be firstName, got %q", errs[0].Field)
	}
}

func TestValidateDelivery_RerunClearsStaleErrors(t *testing.T) {
	t.Parallel()

	d := validDelivery()
	d.Zip = "123"
	if errs := ValidateDelivery(d); len(errs) != 1 || errs[0].Field != "zip" {
		t.Fatalf("expected a single zip error, got %v", errs)
	}
	d.Zip = "10001"
	if errs := ValidateDelivery(d); len(errs) != 0 {
		t.Fatalf("expected no errors after fixing zip, got %v", errs)
	}
}

func TestValidateBankAccount_ACHConfirmMismatch(t *testing.T) {
	t.Parallel()

	b := model.BankAccountDetails{
		Type:          model.BankAccountACH,
		NameOnAccount: "Jane Smith",
		RoutingNumber: "021000021",
		AccountNumber: "1234567890",
		Confirm:       "1234567891",
		AccountType:   "checking",
	}
	errs := ValidateBankAccount(b)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Field != "accountNumberConfirmation" {
		t.Errorf("expected confirmation error, got %q", errs[0].Field)
	}

	b.Confirm = b.AccountNumber
	if errs := ValidateBankAccount(b); len(errs) != 0 {
		t.Fatalf("expected no errors with matching confirmation, got %v", errs)
	}
}

func TestValidateBankAccount_SEPA(t *testing.T) {
	t.Parallel()

	b := model.BankAccountDetails{
		Type:          model.BankAccountSEPA,
		NameOnAccount: "Jane Smith",
		IBAN:          "DE89 3704 0044 0532 0130 00",
	}
	if errs := ValidateBankAccount(b); len(errs) != 0 {
		t.Fatalf("expected spaced IBAN to validate, got %v", errs)
	}

	b.IBAN = "D189370400440532013000" // digit in the country code
	if errs := ValidateBankAccount(b); len(errs) != 1 || errs[0].Field != "iban" {
		t.Fatalf("expected an iban error, got %v", errs)
	}

	b.IBAN = "DE89"
	if errs := ValidateBankAccount(b); len(errs) != 1 || errs[0].Field != "iban" {
		t.Fatalf("expected an iban error for short input, got %v", errs)
	}
}

func TestFormatIBAN_GroupsOfFour(t *testing.T) {
	t.Parallel()

	got := FormatIBAN("DE89370400440532013000")
	want := "DE89 3704 0044 0532 0130 00"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	// Formatting is idempotent over already-spaced input.
	if again := FormatIBAN(got); again != want {
		t.Errorf("expected %q after reformat, got %q", want, again)
	}

	if got := FormatIBAN("de89 3704"); got != "DE89 3704" {
		t.Errorf("expected uppercase regrouping, got %q", got)
	}

	// Multibyte keystrokes count as one character each; they must not
	// shift later group boundaries.
	if got := FormatIBAN("DÉ89370400"); got != "DÉ89 3704 00" {
		t.Errorf("expected rune-based grouping, got %q", got)
	}
}
