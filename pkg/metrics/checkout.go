package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout outcomes and per-line submissions.
type CheckoutMetrics struct {
	outcomes *prometheus.CounterVec
	lines    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkouts by terminal outcome.",
	}, []string{"outcome"})
	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_lines_total",
		Help: "Cart lines processed during submission.",
	}, []string{"result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkouts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(outcomes, lines, duration)
	return &CheckoutMetrics{
		outcomes: outcomes,
		lines:    lines,
		duration: duration,
	}
}

// ObserveOutcome counts one finished checkout and its duration.
func (c *CheckoutMetrics) ObserveOutcome(outcome string, duration time.Duration) {
	if c == nil || c.outcomes == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.outcomes.WithLabelValues(label).Inc()
	c.duration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncLineSubmitted counts a line whose order and stock writes both succeeded.
func (c *CheckoutMetrics) IncLineSubmitted() {
	if c == nil || c.lines == nil {
		return
	}
	c.lines.WithLabelValues("submitted").Inc()
}

// IncLineFailed counts a line that stopped submission.
func (c *CheckoutMetrics) IncLineFailed() {
	if c == nil || c.lines == nil {
		return
	}
	c.lines.WithLabelValues("failed").Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
