package mpp

import "github.com/prometheus/client_golang/prometheus"

var (
	splitAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mppcoord",
		Subsystem: "splitter",
		Name:      "attempts_total",
		Help:      "Number of times the splitter was invoked, including retries.",
	})

	retriesConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mppcoord",
		Subsystem: "lifecycle",
		Name:      "retries_consumed_total",
		Help:      "Number of attempt-budget units consumed by a retry spawn.",
	})

	paymentsSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mppcoord",
		Subsystem: "lifecycle",
		Name:      "payments_succeeded_total",
		Help:      "Number of lifecycles that reached SUCCEEDED.",
	})

	paymentsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mppcoord",
		Subsystem: "lifecycle",
		Name:      "payments_failed_total",
		Help:      "Number of lifecycles that reached ABORTED.",
	})
)

// MustRegisterMetrics registers all package counters against reg. Callers
// own their registry (e.g. prometheus.DefaultRegisterer or a private one
// for tests) and decide when and whether to expose it.
func MustRegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		splitAttempts,
		retriesConsumed,
		paymentsSucceeded,
		paymentsFailed,
	)
}
