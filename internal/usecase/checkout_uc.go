package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/model"
	"bloom-subscription-storefront/internal/domain/ports/adapter"
	"bloom-subscription-storefront/internal/domain/ports/repository"
	"bloom-subscription-storefront/internal/infra/logging"
	"bloom-subscription-storefront/internal/infra/metrics"
)

// Fixed user-facing fallback messages. Backend-provided messages are always
// preferred when present.
const (
	msgNetworkError    = "Something went wrong while placing your order. Please check your connection and try again."
	msgBackendFallback = "Your order could not be completed. Please try again."
	msgCardFallback    = "We could not process your card. Please check your details and try again."
	msgBankFallback    = "We could not process your bank account. Please check your details and try again."
	msgWalletNoToken   = "The wallet payment did not complete. Please try another payment method."
	msgInvalidCoupon   = "Invalid coupon code"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase orchestrates the checkout page: state initialization,
// coupon pricing, payment-tab switching, and the submit state machine.
type CheckoutUseCase interface {
	// Init (re)builds the checkout state from the stored plan selection,
	// substituting the default plan when the selection is absent or corrupt.
	Init(ctx context.Context, sessionID string) (*model.CheckoutState, error)
	// State returns the current checkout state, initializing it if needed.
	State(ctx context.Context, sessionID string) (*model.CheckoutState, error)
	// ApplyCoupon resolves a code against the fixed table. A miss clears any
	// previously applied coupon; only one coupon is ever active.
	ApplyCoupon(ctx context.Context, sessionID, code string) (*CouponOutcome, error)
	// SwitchTab activates one payment panel and clears the banner payment
	// error. Entered field values are never cleared here.
	SwitchTab(ctx context.Context, sessionID string, tab model.PaymentTab) (*model.CheckoutState, error)
	// Submit runs one full submission attempt through the state machine.
	Submit(ctx context.Context, sessionID string, form SubmitForm) (*SubmitOutcome, error)
	// Confirmed returns the confirmation record written by a successful
	// submission, for the confirmation page.
	Confirmed(ctx context.Context, sessionID string) (*model.ConfirmedSubscription, error)
	// WalletAvailable reports whether the device-wallet flow is offered.
	WalletAvailable(ctx context.Context) bool
}

// CouponOutcome is the displayed result of one coupon application.
type CouponOutcome struct {
	Applied         bool          `json:"applied"`
	Coupon          *model.Coupon `json:"coupon,omitempty"`
	Message         string        `json:"message"`
	PriceDisplay    string        `json:"price"`
	DiscountDisplay string        `json:"discount,omitempty"`
	TotalDisplay    string        `json:"total"`
}

// SubmitOutcome is the terminal result of one submission attempt.
type SubmitOutcome struct {
	Phase           Phase                        `json:"phase"`
	FieldErrors     []FieldError                 `json:"fieldErrors,omitempty"`
	FirstErrorField string                       `json:"firstErrorField,omitempty"`
	Message         string                       `json:"message,omitempty"`
	Confirmation    *model.ConfirmedSubscription `json:"confirmation,omitempty"`
	RedirectURL     string                       `json:"redirectUrl,omitempty"`
	RedirectDelayMs int64                        `json:"redirectDelayMs,omitempty"`

	// Set when the backend demands a 3-D Secure challenge.
	ThreeDSecureActionTokenID string `json:"threeDSecureActionTokenId,omitempty"`
}

func (o *SubmitOutcome) Succeeded() bool { return o.Phase == PhaseSucceeded }

type checkoutUC struct {
	sessions      repository.SessionStore
	tokenizer     adapter.PaymentTokenizer
	backend       adapter.SubscriptionBackend
	demoMode      bool
	redirectURL   string
	redirectDelay time.Duration
	log           *zerolog.Logger
}

func NewCheckoutUseCase(
	sessions repository.SessionStore,
	tokenizer adapter.PaymentTokenizer,
	backend adapter.SubscriptionBackend,
	demoMode bool,
	redirectURL string,
	redirectDelay time.Duration,
	logger *zerolog.Logger,
) *checkoutUC {
	return &checkoutUC{
		sessions:      sessions,
		tokenizer:     tokenizer,
		backend:       backend,
		demoMode:      demoMode,
		redirectURL:   redirectURL,
		redirectDelay: redirectDelay,
		log:           logger,
	}
}

func (u *checkoutUC) Init(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	plan := model.DefaultPlanSelection()
	raw, err := u.sessions.Get(ctx, sessionID, repository.KeySelectedPlan)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// Degraded mode, not an error: render the default plan.
		u.log.Debug().Msg("no stored plan selection, using default plan")
	case err != nil:
		return nil, fmt.Errorf("read plan selection: %w", err)
	default:
		var sel model.PlanSelection
		if jerr := json.Unmarshal([]byte(raw), &sel); jerr != nil {
			u.log.Warn().Err(jerr).Msg("stored plan selection unparsable, using default plan")
		} else {
			plan = sel
		}
	}

	st := &model.CheckoutState{
		Plan:      plan,
		ActiveTab: model.PaymentTabCard,
		DemoMode:  u.demoMode,
	}
	if u.demoMode {
		u.log.Info().Msg("payment provider unavailable, checkout running in demo mode")
	}
	if err := u.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (u *checkoutUC) State(ctx context.Context, sessionID string) (*model.CheckoutState, error) {
	raw, err := u.sessions.Get(ctx, sessionID, repository.KeyCheckoutState)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return u.Init(ctx, sessionID)
		}
		return nil, err
	}
	var st model.CheckoutState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		u.log.Warn().Err(err).Msg("checkout state unparsable, reinitializing")
		return u.Init(ctx, sessionID)
	}
	return &st, nil
}

func (u *checkoutUC) saveState(ctx context.Context, sessionID string, st *model.CheckoutState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal checkout state: %w", err)
	}
	return u.sessions.Set(ctx, sessionID, repository.KeyCheckoutState, string(data))
}

func (u *checkoutUC) ApplyCoupon(ctx context.Context, sessionID, code string) (*CouponOutcome, error) {
	st, err := u.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	price := st.PriceCents()

	coupon, lookupErr := model.LookupCoupon(code)
	if lookupErr != nil {
		// A miss replaces (clears) any previously applied coupon and
		// resets the displayed total.
		st.AppliedCoupon = nil
		if err := u.saveState(ctx, sessionID, st); err != nil {
			return nil, err
		}
		metrics.IncCoupon(false)
		return &CouponOutcome{
			Applied:      false,
			Message:      msgInvalidCoupon,
			PriceDisplay: model.FormatUSD(price),
			TotalDisplay: model.FormatUSD(price),
		}, nil
	}

	st.AppliedCoupon = coupon
	if err := u.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	metrics.IncCoupon(true)
	discount := coupon.DiscountCents(price)
	return &CouponOutcome{
		Applied:         true,
		Coupon:          coupon,
		Message:         "Coupon applied: " + coupon.Label,
		PriceDisplay:    model.FormatUSD(price),
		DiscountDisplay: model.FormatUSD(-discount),
		TotalDisplay:    model.FormatUSD(price - discount),
	}, nil
}

func (u *checkoutUC) SwitchTab(ctx context.Context, sessionID string, tab model.PaymentTab) (*model.CheckoutState, error) {
	if !model.ValidTab(tab) {
		return nil, fmt.Errorf("tab %q: %w", tab, domain.ErrInvalidArgument)
	}
	st, err := u.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.ActiveTab = tab
	st.PaymentError = ""
	if err := u.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (u *checkoutUC) WalletAvailable(ctx context.Context) bool {
	return !u.demoMode && u.tokenizer.WalletAvailable(ctx)
}

func (u *checkoutUC) Confirmed(ctx context.Context, sessionID string) (*model.ConfirmedSubscription, error) {
	raw, err := u.sessions.Get(ctx, sessionID, repository.KeyConfirmedSubscription)
	if err != nil {
		return nil, err
	}
	var conf model.ConfirmedSubscription
	if err := json.Unmarshal([]byte(raw), &conf); err != nil {
		return nil, fmt.Errorf("unmarshal confirmation: %w", err)
	}
	return &conf, nil
}

// Submit drives the pure machine, executing each effect and feeding the
// resulting event back in until the attempt reaches a terminal phase.
func (u *checkoutUC) Submit(ctx context.Context, sessionID string, form SubmitForm) (*SubmitOutcome, error) {
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "CheckoutUC.Submit")()
	start := time.Now()

	st, err := u.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if st.SubmitInFlight {
		return nil, domain.ErrSubmitInFlight
	}
	st.SubmitInFlight = true
	if err := u.saveState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	defer func() {
		st.SubmitInFlight = false
		if serr := u.saveState(ctx, sessionID, st); serr != nil {
			log.Error().Err(serr).Msg("failed to clear in-flight flag")
		}
	}()

	form.Method = canonicalMethod(st.ActiveTab, form.Method)

	m := NewMachine(st.DemoMode, u.redirectURL, u.redirectDelay)
	out := &SubmitOutcome{}
	outcome := ""
	var billing model.BillingAddress

	var ev Event = EvSubmit{Form: form}
	for ev != nil {
		var effects []Effect
		m, effects = m.Step(ev)
		ev = nil
		for _, fx := range effects {
			switch fx := fx.(type) {
			case FxValidateDelivery:
				if errs := ValidateDelivery(fx.Form.Delivery); len(errs) > 0 {
					for _, fe := range errs {
						metrics.IncValidationFailure(fe.Field)
					}
					outcome = "validation_failed"
					ev = EvValidationFailed{Fields: errs}
				} else {
					ev = EvValidationOK{}
				}

			case FxSyncBilling:
				billing = resolveBilling(fx.Form)

			case FxUseDemoToken:
				// Demo mode never calls the tokenizer.
				metrics.IncTokenization("demo", true)
				ev = EvTokenObtained{Token: model.DemoToken}

			case FxRequestToken:
				token, fieldErrs, terr := u.obtainToken(ctx, fx.Method, billing)
				if terr != nil {
					outcome = "tokenization_failed"
					out.FieldErrors = fieldErrs
					if len(fieldErrs) > 0 {
						out.FirstErrorField = fieldErrs[0].Field
					}
					log.Warn().Err(terr).Str("method", string(fx.Method.Kind)).Msg("tokenization failed")
					ev = EvTokenizationFailed{Message: terr.Error()}
				} else {
					ev = EvTokenObtained{Token: token}
				}

			case FxPostSubscription:
				req := u.buildRequest(st, form, billing, fx.Token)
				res, berr := u.backend.CreateSubscription(ctx, req)
				switch {
				case berr != nil:
					outcome = "network_error"
					log.Error().Err(berr).Msg("subscribe call failed")
					ev = EvBackendRejected{Message: msgNetworkError}
				case !res.Success:
					outcome = "backend_rejected"
					out.ThreeDSecureActionTokenID = res.ThreeDSecureActionTokenID
					msg := res.Message
					if msg == "" {
						msg = msgBackendFallback
					}
					log.Warn().Str("message", res.Message).Msg("subscription rejected")
					ev = EvBackendRejected{Message: msg}
				default:
					outcome = "succeeded"
					ev = EvBackendAccepted{Result: *res}
				}

			case FxShowFieldErrors:
				out.FieldErrors = fx.Fields
				out.FirstErrorField = fx.First

			case FxShowPaymentError:
				out.Message = fx.Message
				st.PaymentError = fx.Message

			case FxPersistConfirmation:
				conf, perr := u.persistConfirmation(ctx, sessionID, st, fx.Result)
				if perr != nil {
					log.Error().Err(perr).Msg("failed to persist confirmation")
				}
				out.Confirmation = conf
				st.PaymentError = ""
				log.Info().
					Str("subscription_id", fx.Result.SubscriptionID).
					Str("plan_code", st.Plan.PlanCode).
					Str("email", logging.Redact(form.Delivery.Email, false)).
					Msg("subscription created")

			case FxScheduleRedirect:
				out.RedirectURL = fx.URL
				out.RedirectDelayMs = fx.After.Milliseconds()
			}
		}
	}

	out.Phase = m.Phase
	metrics.IncSubmission(outcome)
	metrics.ObserveSubmitLatency(time.Since(start).Milliseconds())
	return out, nil
}

// canonicalMethod makes the active tab authoritative for the tokenization
// path. A wallet-minted token bypasses the manual tabs entirely.
func canonicalMethod(tab model.PaymentTab, method model.PaymentMethod) model.PaymentMethod {
	if method.Kind == model.PaymentMethodWallet {
		return method
	}
	switch tab {
	case model.PaymentTabACH, model.PaymentTabSEPA:
		bank := method.Bank
		if bank == nil {
			bank = &model.BankAccountDetails{}
		}
		if tab == model.PaymentTabACH {
			bank.Type = model.BankAccountACH
		} else {
			bank.Type = model.BankAccountSEPA
		}
		return model.PaymentMethod{Kind: model.PaymentMethodBank, Bank: bank}
	default:
		card := method.Card
		if card == nil {
			card = &model.CardDetails{}
		}
		return model.PaymentMethod{Kind: model.PaymentMethodCard, Card: card}
	}
}

// resolveBilling synchronizes the billing address before tokenization.
func resolveBilling(form SubmitForm) model.BillingAddress {
	if form.SameAsDelivery {
		return model.BillingFromDelivery(form.Delivery)
	}
	billing := form.Billing
	if billing.Country == "" {
		billing.Country = "US"
	}
	return billing
}

// obtainToken runs the tokenization path for one payment method. Bank
// payloads are validated locally first; a local failure never reaches the
// provider. Returned field errors accompany ach/sepa validation failures.
func (u *checkoutUC) obtainToken(ctx context.Context, method model.PaymentMethod, billing model.BillingAddress) (string, []FieldError, error) {
	switch method.Kind {
	case model.PaymentMethodWallet:
		if method.WalletToken == "" {
			metrics.IncTokenization("wallet", false)
			return "", nil, &adapter.TokenizationError{Message: msgWalletNoToken}
		}
		metrics.IncTokenization("wallet", true)
		return method.WalletToken, nil, nil

	case model.PaymentMethodBank:
		if errs := ValidateBankAccount(*method.Bank); len(errs) > 0 {
			metrics.IncTokenization("bank_account", false)
			return "", errs, &adapter.TokenizationError{Message: errs[0].Message}
		}
		token, err := u.tokenizer.TokenizeBankAccount(ctx, *method.Bank, billing)
		if err != nil {
			metrics.IncTokenization("bank_account", false)
			return "", nil, tokenizationMessage(err, msgBankFallback)
		}
		metrics.IncTokenization("bank_account", true)
		return token, nil, nil

	default:
		token, err := u.tokenizer.TokenizeCard(ctx, *method.Card, billing)
		if err != nil {
			metrics.IncTokenization("card", false)
			return "", nil, tokenizationMessage(err, msgCardFallback)
		}
		metrics.IncTokenization("card", true)
		return token, nil, nil
	}
}

// tokenizationMessage keeps the provider's own message when it sent one and
// falls back to a fixed string otherwise.
func tokenizationMessage(err error, fallback string) error {
	var te *adapter.TokenizationError
	if errors.As(err, &te) && te.Message != "" {
		return te
	}
	return &adapter.TokenizationError{Message: fallback}
}

func (u *checkoutUC) buildRequest(st *model.CheckoutState, form SubmitForm, billing model.BillingAddress, token string) adapter.SubscribeRequest {
	var couponCode *string
	if st.AppliedCoupon != nil {
		code := st.AppliedCoupon.Code
		couponCode = &code
	}
	return adapter.SubscribeRequest{
		Token:     token,
		PlanCode:  st.Plan.PlanCode,
		FirstName: form.Delivery.FirstName,
		LastName:  form.Delivery.LastName,
		Email:     form.Delivery.Email,
		Phone:     form.Delivery.Phone,
		Address: adapter.SubscribeAddress{
			Address1: billing.Address1,
			Address2: billing.Address2,
			City:     billing.City,
			State:    billing.State,
			Zip:      billing.Zip,
			Country:  billing.Country,
		},
		DeliveryNotes:    form.Delivery.DeliveryNotes,
		CouponCode:       couponCode,
		StartDate:        u.normalizeStartDate(form.Delivery.StartDate),
		Occasion:         form.Delivery.Occasion,
		ColorPreferences: form.Delivery.ColorPreferences,

		ThreeDSecureActionResultTokenID: form.ThreeDSecureActionResultTokenID,
	}
}

// normalizeStartDate degrades an invalid or past specific date to immediate
// start, mirroring the backend's own handling.
func (u *checkoutUC) normalizeStartDate(s string) string {
	if s == "" || s == model.StartDateASAP {
		return model.StartDateASAP
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		u.log.Warn().Str("start_date", s).Msg("invalid start date, defaulting to immediate")
		return model.StartDateASAP
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if d.Before(today) {
		u.log.Warn().Str("start_date", s).Msg("start date in the past, defaulting to immediate")
		return model.StartDateASAP
	}
	return s
}

func (u *checkoutUC) persistConfirmation(ctx context.Context, sessionID string, st *model.CheckoutState, res model.SubmissionResult) (*model.ConfirmedSubscription, error) {
	conf := &model.ConfirmedSubscription{
		SubscriptionID: res.SubscriptionID,
		AccountCode:    res.AccountCode,
		Plan:           st.Plan,
		ConfirmedAt:    time.Now(),
	}
	data, err := json.Marshal(conf)
	if err != nil {
		return conf, fmt.Errorf("marshal confirmation: %w", err)
	}
	if err := u.sessions.Set(ctx, sessionID, repository.KeyConfirmedSubscription, string(data)); err != nil {
		return conf, fmt.Errorf("store confirmation: %w", err)
	}
	// Ownership transfer: the plan selection is consumed by the confirmed
	// subscription record.
	if err := u.sessions.Remove(ctx, sessionID, repository.KeySelectedPlan); err != nil {
		return conf, fmt.Errorf("clear plan selection: %w", err)
	}
	return conf, nil
}
