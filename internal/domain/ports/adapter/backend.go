package adapter

import (
	"context"

	"bloom-subscription-storefront/internal/domain/model"
)

// SubscribeAddress is the address sub-object of the subscribe payload.
type SubscribeAddress struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// SubscribeRequest is the JSON body POSTed to the backend's subscribe
// endpoint. The coupon code (not the computed discount) travels here; the
// backend owns final pricing.
type SubscribeRequest struct {
	Token            string           `json:"recurly_token"`
	PlanCode         string           `json:"plan_code"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone,omitempty"`
	Address          SubscribeAddress `json:"address"`
	DeliveryNotes    string           `json:"delivery_notes,omitempty"`
	CouponCode       *string          `json:"coupon_code"`
	StartDate        string           `json:"start_date"`
	Occasion         string           `json:"occasion,omitempty"`
	ColorPreferences []string         `json:"color_prefs"`

	// Second-pass field for the 3-D Secure round trip.
	ThreeDSecureActionResultTokenID string `json:"three_d_secure_action_result_token_id,omitempty"`
}

// SubscriptionBackend is the port over the one backend endpoint this
// storefront talks to. Its validation, idempotency, and pricing rules are an
// external contract: a non-nil result with Success=false carries the
// backend's message verbatim, a transport failure returns an error.
type SubscriptionBackend interface {
	CreateSubscription(ctx context.Context, req SubscribeRequest) (*model.SubmissionResult, error)
}
