package model

import (
	"math"
	"strings"

	"bloom-subscription-storefront/internal/domain"
)

// Coupon is a fixed promotional discount. The code (never the computed
// discount) is forwarded to the backend, which recomputes pricing
// authoritatively; the fraction here only drives the displayed total.
type Coupon struct {
	Code             string  `json:"code"`
	DiscountFraction float64 `json:"discountFraction"` // 0..1
	Label            string  `json:"label"`
}

// coupons is the fixed lookup table; codes are stored uppercase.
var coupons = map[string]Coupon{
	"FOREVER20": {Code: "FOREVER20", DiscountFraction: 0.20, Label: "20% off forever"},
	"WELCOME10": {Code: "WELCOME10", DiscountFraction: 0.10, Label: "10% off your first month"},
	"SPRING15":  {Code: "SPRING15", DiscountFraction: 0.15, Label: "15% spring special"},
}

// LookupCoupon uppercases the submitted code and resolves it against the
// fixed table.
func LookupCoupon(code string) (*Coupon, error) {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	return &c, nil
}

// DiscountCents computes the discount on a price, rounded to the nearest cent.
func (c *Coupon) DiscountCents(priceCents int64) int64 {
	return int64(math.Round(float64(priceCents) * c.DiscountFraction))
}
