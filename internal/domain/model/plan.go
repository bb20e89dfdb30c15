package model

import (
	"fmt"
	"strconv"
	"strings"

	"bloom-subscription-storefront/internal/domain"
)

// Plan is a purchasable delivery plan from the fixed storefront catalog.
type Plan struct {
	Code          string // provider plan code, e.g. "classic-monthly"
	Name          string
	PriceCents    int64  // nominal price in cents; backend recomputes the final charge
	BillingPeriod string // "month" | "2 weeks" | "week"
	Category      string // filter key: "monthly" | "frequency" | "specialty"
}

// PriceDisplay renders the nominal price as a decimal string ("50.00").
func (p *Plan) PriceDisplay() string { return FormatCents(p.PriceCents) }

// PlanSelection is the handoff record written when a user picks a plan card.
// Field values come straight from the card's metadata and are persisted
// unvalidated; checkout deals with whatever arrives.
type PlanSelection struct {
	PlanID        string `json:"planId"`
	Name          string `json:"name"`
	Price         string `json:"price"` // decimal string, e.g. "50.00"
	BillingPeriod string `json:"billingPeriod"`
	PlanCode      string `json:"planCode"`
}

// catalog mirrors the plans defined in the provider admin console.
var catalog = []Plan{
	{Code: "1399", Name: "Classic Bouquet", PriceCents: 5000, BillingPeriod: "month", Category: "monthly"},
	{Code: "classic-monthly", Name: "Classic Monthly", PriceCents: 4500, BillingPeriod: "month", Category: "monthly"},
	{Code: "premium-monthly", Name: "Premium Monthly", PriceCents: 6500, BillingPeriod: "month", Category: "monthly"},
	{Code: "deluxe-monthly", Name: "Deluxe Monthly", PriceCents: 8500, BillingPeriod: "month", Category: "monthly"},
	{Code: "biweekly-delivery", Name: "Bi-Weekly Delivery", PriceCents: 4000, BillingPeriod: "2 weeks", Category: "frequency"},
	{Code: "weekly-delivery", Name: "Weekly Delivery", PriceCents: 3500, BillingPeriod: "week", Category: "frequency"},
	{Code: "roses-monthly", Name: "Just Roses", PriceCents: 5500, BillingPeriod: "month", Category: "specialty"},
	{Code: "tropical-monthly", Name: "Tropical Collection", PriceCents: 6000, BillingPeriod: "month", Category: "specialty"},
	{Code: "petsafe-monthly", Name: "Pet-Safe Blooms", PriceCents: 5000, BillingPeriod: "month", Category: "specialty"},
	{Code: "plants-monthly", Name: "Living Plants", PriceCents: 4000, BillingPeriod: "month", Category: "specialty"},
}

// Catalog returns a copy of the full plan catalog.
func Catalog() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// FilterPlans returns the plans visible under the given filter key.
// "all" (or empty) shows everything; any other key matches Category.
func FilterPlans(filter string) []Plan {
	if filter == "" || filter == "all" {
		return Catalog()
	}
	var out []Plan
	for _, p := range catalog {
		if p.Category == filter {
			out = append(out, p)
		}
	}
	return out
}

// FindPlan looks a plan up by provider code.
func FindPlan(code string) (*Plan, error) {
	for i := range catalog {
		if catalog[i].Code == code {
			p := catalog[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("plan %q: %w", code, domain.ErrNotFound)
}

// ValidPlanCode reports whether code exists in the catalog.
func ValidPlanCode(code string) bool {
	_, err := FindPlan(code)
	return err == nil
}

// DefaultPlanSelection is the degraded-mode fallback used when the stored
// selection is absent or unparsable.
func DefaultPlanSelection() PlanSelection {
	return PlanSelection{
		PlanID:        "classic",
		Name:          "Classic Bouquet",
		Price:         "50.00",
		BillingPeriod: "month",
		PlanCode:      "1399",
	}
}

// Selection converts a catalog plan into its handoff record.
func (p *Plan) Selection() PlanSelection {
	return PlanSelection{
		PlanID:        p.Code,
		Name:          p.Name,
		Price:         p.PriceDisplay(),
		BillingPeriod: p.BillingPeriod,
		PlanCode:      p.Code,
	}
}

// FormatCents renders integer cents as a plain decimal string ("40.00").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatUSD renders integer cents as a dollar amount ("$40.00").
func FormatUSD(cents int64) string {
	if cents < 0 {
		return "-$" + FormatCents(-cents)
	}
	return "$" + FormatCents(cents)
}

// ParsePrice converts a decimal price string ("50.00") into cents.
// Malformed input yields ErrInvalidArgument; callers decide how to degrade.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	whole, frac, hasFrac := strings.Cut(s, ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, fmt.Errorf("price %q: %w", s, domain.ErrInvalidArgument)
	}
	var cents int64
	if hasFrac {
		if len(frac) != 2 {
			return 0, fmt.Errorf("price %q: %w", s, domain.ErrInvalidArgument)
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("price %q: %w", s, domain.ErrInvalidArgument)
		}
	}
	return dollars*100 + cents, nil
}
