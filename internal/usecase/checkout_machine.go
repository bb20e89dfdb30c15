package usecase

import (
	"time"

	"bloom-subscription-storefront/internal/domain/model"
)

// Phase is the submission state machine position.
// Idle -> Validating -> Tokenizing -> Submitting -> {Succeeded, Failed} -> Idle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseTokenizing Phase = "tokenizing"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// SubmitForm is the form snapshot taken when the submit event fires.
type SubmitForm struct {
	Delivery       model.DeliveryInfo   `json:"delivery"`
	Billing        model.BillingAddress `json:"billing"`
	SameAsDelivery bool                 `json:"sameAsDelivery"`
	Method         model.PaymentMethod  `json:"method"`

	// Result token from a completed 3-D Secure challenge; set on the
	// follow-up submission after the backend demanded the challenge.
	ThreeDSecureActionResultTokenID string `json:"threeDSecureActionResultTokenId,omitempty"`
}

// Event moves the machine forward. Each asynchronous completion (validation,
// tokenization, backend call) is delivered as exactly one event.
type Event interface{ isEvent() }

type (
	EvSubmit             struct{ Form SubmitForm }
	EvValidationOK       struct{}
	EvValidationFailed   struct{ Fields []FieldError }
	EvTokenObtained      struct{ Token string }
	EvTokenizationFailed struct{ Message string }
	EvBackendAccepted    struct{ Result model.SubmissionResult }
	EvBackendRejected    struct{ Message string }
)

func (EvSubmit) isEvent()             {}
func (EvValidationOK) isEvent()       {}
func (EvValidationFailed) isEvent()   {}
func (EvTokenObtained) isEvent()      {}
func (EvTokenizationFailed) isEvent() {}
func (EvBackendAccepted) isEvent()    {}
func (EvBackendRejected) isEvent()    {}

// Effect is a side effect the orchestrator must execute after a transition.
// The machine itself performs no I/O, so transitions are testable without
// a tokenizer, a backend, or a session store.
type Effect interface{ isEffect() }

type (
	// FxValidateDelivery runs the synchronous delivery validation.
	FxValidateDelivery struct{ Form SubmitForm }
	// FxSyncBilling resolves the billing address before any token request.
	FxSyncBilling struct{ Form SubmitForm }
	// FxRequestToken runs the tokenization path for the active tab.
	FxRequestToken struct{ Method model.PaymentMethod }
	// FxUseDemoToken short-circuits tokenization with the sentinel token.
	FxUseDemoToken struct{}
	// FxPostSubscription issues the single backend call.
	FxPostSubscription struct{ Token string }
	// FxShowFieldErrors renders inline errors; First is scrolled into view.
	FxShowFieldErrors struct {
		Fields []FieldError
		First  string
	}
	// FxShowPaymentError renders the banner payment error.
	FxShowPaymentError struct{ Message string }
	// FxPersistConfirmation writes confirmedSubscription and clears the
	// plan selection (ownership transfer).
	FxPersistConfirmation struct{ Result model.SubmissionResult }
	// FxScheduleRedirect is the fixed, un-cancelable post-success redirect.
	FxScheduleRedirect struct {
		URL   string
		After time.Duration
	}
)

func (FxValidateDelivery) isEffect()    {}
func (FxSyncBilling) isEffect()         {}
func (FxRequestToken) isEffect()        {}
func (FxUseDemoToken) isEffect()        {}
func (FxPostSubscription) isEffect()    {}
func (FxShowFieldErrors) isEffect()     {}
func (FxShowPaymentError) isEffect()    {}
func (FxPersistConfirmation) isEffect() {}
func (FxScheduleRedirect) isEffect()    {}

// Machine is the pure submission state machine. Step is a function of
// (machine, event) to (machine, effects); it never touches the network.
type Machine struct {
	Phase         Phase
	DemoMode      bool
	RedirectURL   string
	RedirectDelay time.Duration

	form SubmitForm
}

// NewMachine returns a machine at Idle for one submission attempt.
func NewMachine(demoMode bool, redirectURL string, redirectDelay time.Duration) Machine {
	return Machine{
		Phase:         PhaseIdle,
		DemoMode:      demoMode,
		RedirectURL:   redirectURL,
		RedirectDelay: redirectDelay,
	}
}

// Step advances the machine. Events that do not apply to the current phase
// are ignored (the UI guard, not the machine, prevents double submits).
func (m Machine) Step(ev Event) (Machine, []Effect) {
	switch ev := ev.(type) {
	case EvSubmit:
		if m.Phase != PhaseIdle {
			return m, nil
		}
		m.Phase = PhaseValidating
		m.form = ev.Form
		return m, []Effect{FxValidateDelivery{Form: ev.Form}}

	case EvValidationFailed:
		if m.Phase != PhaseValidating {
			return m, nil
		}
		m.Phase = PhaseFailed
		first := ""
		if len(ev.Fields) > 0 {
			first = ev.Fields[0].Field
		}
		// No network call is ever issued from here.
		return m, []Effect{FxShowFieldErrors{Fields: ev.Fields, First: first}}

	case EvValidationOK:
		if m.Phase != PhaseValidating {
			return m, nil
		}
		m.Phase = PhaseTokenizing
		effects := []Effect{FxSyncBilling{Form: m.form}}
		if m.DemoMode {
			effects = append(effects, FxUseDemoToken{})
		} else {
			effects = append(effects, FxRequestToken{Method: m.form.Method})
		}
		return m, effects

	case EvTokenizationFailed:
		if m.Phase != PhaseTokenizing {
			return m, nil
		}
		m.Phase = PhaseFailed
		return m, []Effect{FxShowPaymentError{Message: ev.Message}}

	case EvTokenObtained:
		if m.Phase != PhaseTokenizing {
			return m, nil
		}
		m.Phase = PhaseSubmitting
		return m, []Effect{FxPostSubscription{Token: ev.Token}}

	case EvBackendRejected:
		if m.Phase != PhaseSubmitting {
			return m, nil
		}
		m.Phase = PhaseFailed
		return m, []Effect{FxShowPaymentError{Message: ev.Message}}

	case EvBackendAccepted:
		if m.Phase != PhaseSubmitting {
			return m, nil
		}
		m.Phase = PhaseSucceeded
		return m, []Effect{
			FxPersistConfirmation{Result: ev.Result},
			FxScheduleRedirect{URL: m.RedirectURL, After: m.RedirectDelay},
		}
	}
	return m, nil
}

// Reset returns the machine to Idle so the user can retry after a failure.
func (m Machine) Reset() Machine {
	m.Phase = PhaseIdle
	m.form = SubmitForm{}
	return m
}
