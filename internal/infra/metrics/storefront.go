package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		planSelectionsTotal,
		couponApplicationsTotal,
	)
}

var (
	planSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_plan_selections_total",
			Help: "Plan selections on the storefront, labeled by plan code.",
		},
		[]string{"plan_code"},
	)

	couponApplicationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_coupon_applications_total",
			Help: "Coupon application attempts by result (applied/rejected).",
		},
		[]string{"result"},
	)
)

func IncPlanSelection(planCode string) {
	planSelectionsTotal.WithLabelValues(norm(planCode)).Inc()
}

func IncCoupon(applied bool) {
	result := "rejected"
	if applied {
		result = "applied"
	}
	couponApplicationsTotal.WithLabelValues(result).Inc()
}
