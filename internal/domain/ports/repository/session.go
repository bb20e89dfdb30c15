package repository

import "context"

// Session storage keys. Values are JSON-encoded, browser-session-scoped.
const (
	KeySelectedPlan          = "selectedPlan"
	KeyConfirmedSubscription = "confirmedSubscription"
	KeyCheckoutState         = "checkoutState"
)

// SessionStore is ephemeral per-session key-value storage (the stand-in for
// browser session storage). Get returns domain.ErrNotFound for absent keys;
// Remove of an absent key is a no-op.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Remove(ctx context.Context, sessionID, key string) error
}
