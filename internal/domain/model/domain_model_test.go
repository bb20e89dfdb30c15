//go:build !integration

package model

import (
	"errors"
	"testing"

	"bloom-subscription-storefront/internal/domain"
)

// --- Plan catalog tests ---

func TestFilterPlans(t *testing.T) {
	all := FilterPlans("all")
	if len(all) != len(Catalog()) {
		t.Fatalf("expected filter 'all' to show every plan, got %d of %d", len(all), len(Catalog()))
	}
	for _, filter := range []string{"monthly", "frequency", "specialty"} {
		for _, p := range FilterPlans(filter) {
			if p.Category != filter {
				t.Errorf("filter %q returned plan %q with category %q", filter, p.Code, p.Category)
			}
		}
	}
}

func TestFindPlan(t *testing.T) {
	p, err := FindPlan("1399")
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if p.Name != "Classic Bouquet" {
		t.Errorf("expected Classic Bouquet, got %q", p.Name)
	}
	if p.PriceDisplay() != "50.00" {
		t.Errorf("expected price 50.00, got %q", p.PriceDisplay())
	}

	if _, err := FindPlan("no-such-plan"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDefaultPlanSelection(t *testing.T) {
	sel := DefaultPlanSelection()
	if sel.PlanCode != "1399" || sel.Price != "50.00" {
		t.Errorf("unexpected default plan: %+v", sel)
	}
}

// --- Money formatting tests ---

func TestFormatUSD(t *testing.T) {
	cases := map[int64]string{
		5000:  "$50.00",
		4000:  "$40.00",
		5:     "$0.05",
		0:     "$0.00",
		-1000: "-$10.00",
	}
	for cents, want := range cases {
		if got := FormatUSD(cents); got != want {
			t.Errorf("FormatUSD(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	for input, want := range map[string]int64{
		"50.00":  5000,
		"$50.00": 5000,
		"0.05":   5,
		"40":     4000,
	} {
		got, err := ParsePrice(input)
		if err != nil {
			t.Errorf("ParsePrice(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePrice(%q) = %d, want %d", input, got, want)
		}
	}

	for _, bad := range []string{"", "abc", "50.0", "50.000", "-5.00"} {
		if _, err := ParsePrice(bad); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("ParsePrice(%q): expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

// --- Coupon tests ---

func TestLookupCoupon(t *testing.T) {
	c, err := LookupCoupon("forever20")
	if err != nil {
		t.Fatalf("expected lowercase code to resolve, got %v", err)
	}
	if c.Code != "FOREVER20" || c.DiscountFraction != 0.20 {
		t.Errorf("unexpected coupon: %+v", c)
	}

	if _, err := LookupCoupon("NOPE"); !errors.Is(err, domain.ErrCouponNotFound) {
		t.Errorf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestCouponDiscountCents(t *testing.T) {
	c, _ := LookupCoupon("FOREVER20")
	if got := c.DiscountCents(5000); got != 1000 {
		t.Errorf("expected 1000 cents discount on 5000, got %d", got)
	}
	// Rounded to the nearest cent.
	c15, _ := LookupCoupon("SPRING15")
	if got := c15.DiscountCents(3333); got != 500 {
		t.Errorf("expected 500 cents (499.95 rounded), got %d", got)
	}
}

// --- Checkout state tests ---

func TestCheckoutStateTotals(t *testing.T) {
	st := CheckoutState{Plan: PlanSelection{Price: "50.00"}}
	if st.TotalCents() != 5000 {
		t.Errorf("expected total 5000 without coupon, got %d", st.TotalCents())
	}
	c, _ := LookupCoupon("FOREVER20")
	st.AppliedCoupon = c
	if st.DiscountCents() != 1000 || st.TotalCents() != 4000 {
		t.Errorf("expected 1000/4000, got %d/%d", st.DiscountCents(), st.TotalCents())
	}

	// Malformed plan metadata degrades to zero rather than failing.
	st = CheckoutState{Plan: PlanSelection{Price: "not-a-price"}}
	if st.PriceCents() != 0 {
		t.Errorf("expected 0 for malformed price, got %d", st.PriceCents())
	}
}

func TestBillingFromDelivery(t *testing.T) {
	b := BillingFromDelivery(DeliveryInfo{
		FirstName: "Jane", LastName: "Smith",
		Address1: "123 Bloom St", Address2: "Apt 4B",
		City: "New York", State: "NY", Zip: "10001",
	})
	if b.Address1 != "123 Bloom St" || b.City != "New York" || b.Zip != "10001" {
		t.Errorf("billing address not copied: %+v", b)
	}
	if b.Country != "US" {
		t.Errorf("expected default country US, got %q", b.Country)
	}
}
