package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutSubmissionsTotal,
		tokenizationsTotal,
		validationFailuresTotal,
		submitLatencyMs,
	)
}

var (
	checkoutSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_submissions_total",
			Help: "Checkout submissions by final outcome (succeeded/validation_failed/tokenization_failed/backend_rejected/network_error).",
		},
		[]string{"outcome"},
	)

	tokenizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_tokenizations_total",
			Help: "Payment tokenization calls by method (card/bank_account/wallet/demo) and success.",
		},
		[]string{"method", "success"},
	)

	validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_validation_failures_total",
			Help: "Per-field validation failures on submit.",
		},
		[]string{"field"},
	)

	submitLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_submit_latency_ms",
			Help:    "End-to-end submit latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
	)
)

func IncSubmission(outcome string) {
	checkoutSubmissionsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncTokenization(method string, success bool) {
	s := "false"
	if success {
		s = "true"
	}
	tokenizationsTotal.WithLabelValues(norm(method), s).Inc()
}

func IncValidationFailure(field string) {
	validationFailuresTotal.WithLabelValues(norm(field)).Inc()
}

func ObserveSubmitLatency(ms int64) {
	submitLatencyMs.Observe(float64(ms))
}
