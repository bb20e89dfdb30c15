package model

// PaymentTab identifies which manual payment panel is active. Exactly one
// tab is active at a time and it decides the tokenization path on submit.
type PaymentTab string

const (
	PaymentTabCard PaymentTab = "card"
	PaymentTabACH  PaymentTab = "ach"
	PaymentTabSEPA PaymentTab = "sepa"
)

// ValidTab reports whether t is one of the three known tabs.
func ValidTab(t PaymentTab) bool {
	switch t {
	case PaymentTabCard, PaymentTabACH, PaymentTabSEPA:
		return true
	}
	return false
}

// StartDateASAP is the sentinel start-date value for immediate delivery.
// Any other value is a specific YYYY-MM-DD calendar date, today or later.
const StartDateASAP = "asap"

// DeliveryInfo is the delivery form snapshot assembled at submit time.
// It lives only for the duration of one submission attempt.
type DeliveryInfo struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Address1         string   `json:"address1"`
	Address2         string   `json:"address2"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	Zip              string   `json:"zip"`
	DeliveryNotes    string   `json:"delivery_notes"`
	Occasion         string   `json:"occasion"`
	ColorPreferences []string `json:"color_prefs"`
	StartDate        string   `json:"start_date"` // "asap" or YYYY-MM-DD
}

// BillingAddress mirrors the delivery address fields; it is either copied
// from DeliveryInfo or collected independently. The payment provider reads
// it at tokenization time, so it must be synchronized before any token call.
type BillingAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// BillingFromDelivery copies the delivery fields into a billing address,
// used when "same as delivery" is set.
func BillingFromDelivery(d DeliveryInfo) BillingAddress {
	return BillingAddress{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Address1:  d.Address1,
		Address2:  d.Address2,
		City:      d.City,
		State:     d.State,
		Zip:       d.Zip,
		Country:   "US",
	}
}

// CheckoutState is the explicit per-session checkout state. It replaces the
// original page's module globals; every handler receives and returns it
// through the session store.
type CheckoutState struct {
	Plan           PlanSelection `json:"plan"`
	AppliedCoupon  *Coupon       `json:"appliedCoupon,omitempty"`
	ActiveTab      PaymentTab    `json:"activeTab"`
	SubmitInFlight bool          `json:"submitInFlight"`
	DemoMode       bool          `json:"demoMode"`
	PaymentError   string        `json:"paymentError,omitempty"`
}

// PriceCents parses the plan's nominal price, degrading to zero on
// malformed metadata (selection is persisted unvalidated).
func (s *CheckoutState) PriceCents() int64 {
	cents, err := ParsePrice(s.Plan.Price)
	if err != nil {
		return 0
	}
	return cents
}

// DiscountCents is the currently displayed discount, zero without a coupon.
func (s *CheckoutState) DiscountCents() int64 {
	if s.AppliedCoupon == nil {
		return 0
	}
	return s.AppliedCoupon.DiscountCents(s.PriceCents())
}

// TotalCents is the displayed total: nominal price minus displayed discount.
func (s *CheckoutState) TotalCents() int64 {
	return s.PriceCents() - s.DiscountCents()
}
