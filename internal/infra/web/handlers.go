package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"bloom-subscription-storefront/internal/domain"
	"bloom-subscription-storefront/internal/domain/model"
	"bloom-subscription-storefront/internal/usecase"
)

const demoNotice = "Payment provider unavailable — checkout is running in demo mode. No real charges will occur."

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// planView is the card rendering of one catalog plan.
type planView struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	BillingPeriod string `json:"billingPeriod"`
	Category      string `json:"category"`
}

// plansListHandler serves the storefront cards under a filter key.
func plansListHandler(planUC usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		if filter == "" {
			filter = "all"
		}
		plans := planUC.List(r.Context(), filter)
		views := make([]planView, 0, len(plans))
		for _, p := range plans {
			views = append(views, planView{
				Code:          p.Code,
				Name:          p.Name,
				Price:         p.PriceDisplay(),
				BillingPeriod: p.BillingPeriod,
				Category:      p.Category,
			})
		}
		writeJSON(w, http.StatusOK, struct {
			Filter string     `json:"filter"`
			Data   []planView `json:"data"`
		}{Filter: filter, Data: views})
	}
}

// planSelectHandler performs the select-plan handoff: the posted selection
// is stored as-is and the client is pointed at the checkout page.
func planSelectHandler(planUC usecase.PlanUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sel model.PlanSelection
		if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		count, err := planUC.Select(r.Context(), sessionID(r), sel)
		if err != nil {
			log.Error().Err(err).Msg("plan select failed")
			http.Error(w, "Failed to store selection", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			CartCount int    `json:"cartCount"`
			Redirect  string `json:"redirect"`
		}{CartCount: count, Redirect: "/checkout"})
	}
}

// checkoutView is the checkout page summary.
type checkoutView struct {
	Plan             model.PlanSelection `json:"plan"`
	Price            string              `json:"price"`
	Discount         string              `json:"discount,omitempty"`
	Total            string              `json:"total"`
	ActiveTab        model.PaymentTab    `json:"activeTab"`
	AppliedCoupon    *model.Coupon       `json:"appliedCoupon,omitempty"`
	PaymentError     string              `json:"paymentError,omitempty"`
	DemoMode         bool                `json:"demoMode"`
	DemoNotice       string              `json:"demoNotice,omitempty"`
	WalletAvailable  bool                `json:"walletAvailable"`
	MinStartDate     string              `json:"minStartDate"`
	DefaultStartDate string              `json:"defaultStartDate"`
}

func viewOf(st *model.CheckoutState, walletAvailable bool) checkoutView {
	v := checkoutView{
		Plan:            st.Plan,
		Price:           model.FormatUSD(st.PriceCents()),
		Total:           model.FormatUSD(st.TotalCents()),
		ActiveTab:       st.ActiveTab,
		AppliedCoupon:   st.AppliedCoupon,
		PaymentError:    st.PaymentError,
		DemoMode:        st.DemoMode,
		WalletAvailable: walletAvailable,
	}
	if st.AppliedCoupon != nil {
		v.Discount = model.FormatUSD(-st.DiscountCents())
	}
	if st.DemoMode {
		v.DemoNotice = demoNotice
	}
	// The date picker's minimum and default are both today.
	today := time.Now().Format("2006-01-02")
	v.MinStartDate = today
	v.DefaultStartDate = today
	return v
}

func checkoutInitHandler(checkoutUC usecase.CheckoutUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := checkoutUC.Init(r.Context(), sessionID(r))
		if err != nil {
			http.Error(w, "Failed to initialize checkout", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(st, checkoutUC.WalletAvailable(r.Context())))
	}
}

func checkoutStateHandler(checkoutUC usecase.CheckoutUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := checkoutUC.State(r.Context(), sessionID(r))
		if err != nil {
			http.Error(w, "Failed to load checkout", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(st, checkoutUC.WalletAvailable(r.Context())))
	}
}

func couponHandler(checkoutUC usecase.CheckoutUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		out, err := checkoutUC.ApplyCoupon(r.Context(), sessionID(r), req.Code)
		if err != nil {
			http.Error(w, "Failed to apply coupon", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func tabHandler(checkoutUC usecase.CheckoutUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tab model.PaymentTab `json:"tab"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		st, err := checkoutUC.SwitchTab(r.Context(), sessionID(r), req.Tab)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to switch tab", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(st, checkoutUC.WalletAvailable(r.Context())))
	}
}

// ibanFormatHandler backs the live IBAN display grouping as the user types.
func ibanFormatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IBAN string `json:"iban"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Formatted string `json:"formatted"`
		}{Formatted: usecase.FormatIBAN(req.IBAN)})
	}
}

func submitHandler(checkoutUC usecase.CheckoutUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form usecase.SubmitForm
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		out, err := checkoutUC.Submit(r.Context(), sessionID(r), form)
		if err != nil {
			if errors.Is(err, domain.ErrSubmitInFlight) {
				http.Error(w, "A submission is already in progress", http.StatusConflict)
				return
			}
			log.Error().Err(err).Msg("submit failed")
			http.Error(w, "Failed to submit order", http.StatusInternalServerError)
			return
		}
		// The outcome (including failures) is the page result, not an HTTP
		// error: the user corrects input and resubmits.
		writeJSON(w, http.StatusOK, out)
	}
}

func confirmationHandler(checkoutUC usecase.CheckoutUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conf, err := checkoutUC.Confirmed(r.Context(), sessionID(r))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "No confirmed subscription", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to load confirmation", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, conf)
	}
}
