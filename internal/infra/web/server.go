package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"bloom-subscription-storefront/internal/infra/logging"
	"bloom-subscription-storefront/internal/usecase"
)

// sessionCookie identifies the browser session; it is the scope for all
// checkout state.
const sessionCookie = "bloom_session"

type ctxKey string

const ctxSessionID ctxKey = "sessionID"

type Server struct {
	planUC     usecase.PlanUseCase
	checkoutUC usecase.CheckoutUseCase
	apiKey     string
	startedAt  time.Time
	log        *zerolog.Logger
}

func NewServer(planUC usecase.PlanUseCase, checkoutUC usecase.CheckoutUseCase, apiKey string, logger *zerolog.Logger) *Server {
	return &Server{
		planUC:     planUC,
		checkoutUC: checkoutUC,
		apiKey:     apiKey,
		startedAt:  time.Now(),
		log:        logger,
	}
}

// Router builds the storefront/checkout API surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Get("/plans", plansListHandler(s.planUC))
			r.Post("/plans/select", planSelectHandler(s.planUC, s.log))

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutStateHandler(s.checkoutUC))
				r.Post("/init", checkoutInitHandler(s.checkoutUC))
				r.Post("/coupon", couponHandler(s.checkoutUC))
				r.Post("/tab", tabHandler(s.checkoutUC))
				r.Post("/iban/format", ibanFormatHandler())
				r.Post("/submit", submitHandler(s.checkoutUC, s.log))
				r.Get("/confirmation", confirmationHandler(s.checkoutUC))
			})
		})

		// Admin routes sit behind the auth middleware.
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/admin/stats", s.adminStatsHandler())
		})
	})

	return r
}

// sessionMiddleware assigns a session cookie on first contact and threads
// the session id through the request context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			sid = c.Value
		} else {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), ctxSessionID, sid)
		ctx = logging.WithSessionID(ctx, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// adminStatsHandler serves basic storefront statistics for operators.
func (s *Server) adminStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := struct {
			UptimeSeconds   int64 `json:"uptime_seconds"`
			PlanCount       int   `json:"plan_count"`
			WalletAvailable bool  `json:"wallet_available"`
		}{
			UptimeSeconds:   int64(time.Since(s.startedAt).Seconds()),
			PlanCount:       len(s.planUC.List(r.Context(), "all")),
			WalletAvailable: s.checkoutUC.WalletAvailable(r.Context()),
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// sessionID extracts the session id placed by sessionMiddleware.
func sessionID(r *http.Request) string {
	if v := r.Context().Value(ctxSessionID); v != nil {
		return v.(string)
	}
	return ""
}
