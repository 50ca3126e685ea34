package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcomes used as label values.
const (
	OutcomeCompleted         = "completed"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeInvalid           = "invalid"
	OutcomeFailed            = "failed"
)

// CheckoutMetrics records checkout submissions.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	units    prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	units := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_units_sold_total",
		Help: "Television units sold through committed checkouts.",
	})
	reg.MustRegister(duration, outcomes, units)
	return &CheckoutMetrics{
		duration: duration,
		outcomes: outcomes,
		units:    units,
	}
}

// Observe records one checkout submission.
func (c *CheckoutMetrics) Observe(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil || c.outcomes == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	c.outcomes.WithLabelValues(outcome).Inc()
}

// AddUnitsSold increments the units counter after a commit.
func (c *CheckoutMetrics) AddUnitsSold(units int) {
	if c == nil || c.units == nil || units <= 0 {
		return
	}
	c.units.Add(float64(units))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
