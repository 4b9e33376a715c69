// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deletion counts account-deletion outcomes.
type Deletion struct {
	completed           prometheus.Counter
	failed              prometheus.Counter
	storagePurgeFailure prometheus.Counter
}

// NewDeletion creates the deletion counters and registers them on reg.
func NewDeletion(reg prometheus.Registerer) *Deletion {
	d := &Deletion{
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harlo_account_deletions_completed_total",
			Help: "Account-deletion transactions that reached the done state.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harlo_account_deletions_failed_total",
			Help: "Account-deletion transactions that terminated in the failed state.",
		}),
		storagePurgeFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harlo_storage_purge_failures_total",
			Help: "Storage sub-trees that survived a purge. These are swallowed by the transaction and need operational follow-up.",
		}),
	}
	reg.MustRegister(d.completed, d.failed, d.storagePurgeFailure)
	return d
}

// Completed records a successful deletion transaction.
func (d *Deletion) Completed() {
	if d == nil {
		return
	}
	d.completed.Inc()
}

// Failed records a failed deletion transaction.
func (d *Deletion) Failed() {
	if d == nil {
		return
	}
	d.failed.Inc()
}

// StoragePurgeFailure records one storage sub-tree that failed to delete.
func (d *Deletion) StoragePurgeFailure() {
	if d == nil {
		return
	}
	d.storagePurgeFailure.Inc()
}

// HTTP observes request counts and latency per route and status.
type HTTP struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewHTTP creates the HTTP metrics and registers them on reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	h := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harlo_http_requests_total",
			Help: "HTTP responses by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "harlo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(h.requests, h.latency)
	return h
}

// Observe records one finished request.
func (h *HTTP) Observe(method, route string, status int, duration time.Duration) {
	if h == nil {
		return
	}
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.latency.Observe(duration.Seconds())
}

// Handler exposes the registry over HTTP.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
