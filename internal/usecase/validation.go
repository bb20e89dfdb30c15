package usecase

import (
	"regexp"
	"strings"

	"bloom-subscription-storefront/internal/domain/model"
)

// FieldError is one inline validation message attached to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	// Two-part local@domain.tld shape; the backend re-validates.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipRe   = regexp.MustCompile(`^\d{5}$`)
	// Two uppercase letters then 13-32 alphanumerics, whitespace stripped.
	ibanRe = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{13,32}$`)
)

var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
}

// ValidEmail reports whether s matches the simple local@domain.tld shape.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidZip reports whether s is exactly five digits.
func ValidZip(s string) bool { return zipRe.MatchString(s) }

// ValidState reports whether s is a US state abbreviation.
func ValidState(s string) bool {
	_, ok := usStates[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// ValidIBAN checks the IBAN shape after stripping all whitespace.
func ValidIBAN(s string) bool {
	return ibanRe.MatchString(strings.Join(strings.Fields(s), ""))
}

// ValidateDelivery fully re-evaluates every delivery field and returns the
// aggregate list of failures in field order. An empty result means pass;
// re-running naturally clears stale errors from now-valid fields.
func ValidateDelivery(d model.DeliveryInfo) []FieldError {
	var errs []FieldError
	add := func(field, message string) { errs = append(errs, FieldError{Field: field, Message: message}) }

	if strings.TrimSpace(d.FirstName) == "" {
		add("firstName", "First name is required")
	}
	if strings.TrimSpace(d.LastName) == "" {
		add("lastName", "Last name is required")
	}
	switch {
	case strings.TrimSpace(d.Email) == "":
		add("email", "Email is required")
	case !ValidEmail(d.Email):
		add("email", "Please enter a valid email address")
	}
	if strings.TrimSpace(d.Address1) == "" {
		add("address1", "Street address is required")
	}
	if strings.TrimSpace(d.City) == "" {
		add("city", "City is required")
	}
	switch {
	case strings.TrimSpace(d.State) == "":
		add("state", "State is required")
	case !ValidState(d.State):
		add("state", "Please enter a valid US state abbreviation")
	}
	switch {
	case strings.TrimSpace(d.Zip) == "":
		add("zip", "ZIP code is required")
	case !ValidZip(d.Zip):
		add("zip", "ZIP code must be exactly 5 digits")
	}
	return errs
}

// ValidateBankAccount checks the fields of the active bank tab. ACH requires
// the re-entered account number to match exactly; SEPA requires a
// well-formed IBAN.
func ValidateBankAccount(b model.BankAccountDetails) []FieldError {
	var errs []FieldError
	add := func(field, message string) { errs = append(errs, FieldError{Field: field, Message: message}) }

	if strings.TrimSpace(b.NameOnAccount) == "" {
		add("nameOnAccount", "Name on account is required")
	}

	switch b.Type {
	case model.BankAccountSEPA:
		switch {
		case strings.TrimSpace(b.IBAN) == "":
			add("iban", "IBAN is required")
		case !ValidIBAN(b.IBAN):
			add("iban", "Please enter a valid IBAN")
		}
	default: // ACH
		if strings.TrimSpace(b.RoutingNumber) == "" {
			add("routingNumber", "Routing number is required")
		}
		if strings.TrimSpace(b.AccountNumber) == "" {
			add("accountNumber", "Account number is required")
		}
		switch {
		case strings.TrimSpace(b.Confirm) == "":
			add("accountNumberConfirmation", "Please confirm the account number")
		case b.Confirm != b.AccountNumber:
			add("accountNumberConfirmation", "Account numbers do not match")
		}
		if strings.TrimSpace(b.AccountType) == "" {
			add("accountType", "Account type is required")
		}
	}
	return errs
}

// FormatIBAN reformats an IBAN for display in groups of four characters.
// Formatting is purely cosmetic and independent of validation.
func FormatIBAN(raw string) string {
	s := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	var b strings.Builder
	n := 0
	for _, r := range s {
		// Group by rune count, not byte offset; the input is arbitrary
		// keystrokes, not yet a validated IBAN.
		if n > 0 && n%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
