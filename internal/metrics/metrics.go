package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the API: request timing
// plus counters for the approval workflow itself.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	requestsCreated *prometheus.CounterVec
	requestsDecided *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	requestsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_requests_created_total",
		Help: "Approval requests created, by action and collection",
	}, []string{"action", "collection"})

	requestsDecided := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_requests_decided_total",
		Help: "Approval requests reviewed, by final status",
	}, []string{"status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, requestsCreated, requestsDecided, goroutines)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		requestsCreated: requestsCreated,
		requestsDecided: requestsDecided,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records timing and count for one handled request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// CountRequestCreated bumps the created counter for a deferred mutation.
func (m *Metrics) CountRequestCreated(action, collection string) {
	if m == nil {
		return
	}
	m.requestsCreated.WithLabelValues(action, collection).Inc()
}

// CountRequestDecided bumps the decided counter with the terminal status.
func (m *Metrics) CountRequestDecided(status string) {
	if m == nil {
		return
	}
	m.requestsDecided.WithLabelValues(status).Inc()
}
