// Package metrics holds the prometheus collectors for the adapter.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated registry served on /metrics
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts inbound requests by method, route and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	// VendorRequests counts agreement API calls by operation and outcome
	VendorRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "esign_vendor_requests_total", Help: "Calls to the e-signature vendor API."},
		[]string{"operation", "outcome"},
	)
	VendorLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "esign_vendor_request_duration_seconds", Help: "Vendor API call duration in seconds.", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
		[]string{"operation"},
	)

	TokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "esign_token_refreshes_total", Help: "OAuth2 token refreshes by outcome."},
		[]string{"outcome"},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "esign_circuit_breaker_state", Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)."},
		[]string{"name"},
	)

	StatusSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "esign_status_syncs_total", Help: "Envelope status syncs by trigger and outcome."},
		[]string{"trigger", "outcome"},
	)

	// StatusChanges counts envelope status transitions by the path that saw them
	StatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "esign_status_changes_total", Help: "Observed envelope status transitions by source and new status."},
		[]string{"source", "status"},
	)

	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "esign_webhook_events_total", Help: "Vendor webhook events by event type."},
		[]string{"event"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(VendorRequests)
		Registry.MustRegister(VendorLatency)
		Registry.MustRegister(TokenRefreshes)
		Registry.MustRegister(BreakerState)
		Registry.MustRegister(StatusSyncs)
		Registry.MustRegister(StatusChanges)
		Registry.MustRegister(WebhookEvents)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveVendorCall records one vendor call
func ObserveVendorCall(operation string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	VendorRequests.WithLabelValues(operation, outcome).Inc()
	VendorLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveHTTPRequest records one inbound request
func ObserveHTTPRequest(method, route string, status int, start time.Time) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// SetBreakerState maps a breaker state name to the gauge value
func SetBreakerState(name, state string) {
	var value float64
	switch state {
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	BreakerState.WithLabelValues(name).Set(value)
}
