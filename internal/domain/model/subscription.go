package model

import "time"

// SubmissionResult is the backend's answer to one subscribe attempt.
type SubmissionResult struct {
	Success        bool   `json:"success"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	AccountCode    string `json:"account_code,omitempty"`
	Message        string `json:"message,omitempty"`

	// Set when the backend demands a 3-D Secure challenge; the caller
	// completes it and resubmits with the action-result token.
	ThreeDSecureActionTokenID string `json:"three_d_secure_action_token_id,omitempty"`
}

// ConfirmedSubscription is written to the session store on success, at which
// point the plan selection is cleared (ownership moves to the confirmation
// page).
type ConfirmedSubscription struct {
	SubscriptionID string        `json:"subscriptionId"`
	AccountCode    string        `json:"accountCode"`
	Plan           PlanSelection `json:"plan"`
	ConfirmedAt    time.Time     `json:"confirmedAt"`
}
