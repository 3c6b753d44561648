package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RemoteMetrics records calls made to the inventory/order service.
type RemoteMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewRemoteMetrics registers the remote client metrics on the provided registerer.
func NewRemoteMetrics(reg prometheus.Registerer) *RemoteMetrics {
	if reg == nil {
		return &RemoteMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "remote_requests_total",
		Help: "Requests sent to the inventory service by operation and status code.",
	}, []string{"operation", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "remote_request_duration_seconds",
		Help:    "Latency of inventory service requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(requests, latency)
	return &RemoteMetrics{requests: requests, latency: latency}
}

// Observe records one request. status 0 means the request never got a response.
func (r *RemoteMetrics) Observe(operation string, status int, duration time.Duration) {
	if r == nil || r.requests == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	op := normalizeLabel(operation)
	r.requests.WithLabelValues(op, code).Inc()
	r.latency.WithLabelValues(op).Observe(duration.Seconds())
}
