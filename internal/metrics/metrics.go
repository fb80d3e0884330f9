package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the application's Prometheus collectors.
type Metrics struct {
    // Total HTTP requests by method, path and status code.
    HTTPRequestsTotal *prometheus.CounterVec

    // HTTP request latency by method and path.
    HTTPRequestDuration *prometheus.HistogramVec

    // Checkout attempts by outcome (booked, validation, conflict, error).
    CheckoutsTotal *prometheus.CounterVec

    // Cancellation attempts by outcome (cancelled, rejected, error).
    CancellationsTotal *prometheus.CounterVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
    return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on the given registry.  Tests
// pass a fresh registry so parallel tests never collide on collector
// names.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
    m := &Metrics{
        HTTPRequestsTotal: prometheus.NewCounterVec(
            prometheus.CounterOpts{
                Name: "http_requests_total",
                Help: "Total number of HTTP requests",
            },
            []string{"method", "path", "status_code"},
        ),
        HTTPRequestDuration: prometheus.NewHistogramVec(
            prometheus.HistogramOpts{
                Name:    "http_request_duration_seconds",
                Help:    "HTTP request latency in seconds",
                Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
            },
            []string{"method", "path"},
        ),
        CheckoutsTotal: prometheus.NewCounterVec(
            prometheus.CounterOpts{
                Name: "checkouts_total",
                Help: "Total number of checkout attempts",
            },
            []string{"status"},
        ),
        CancellationsTotal: prometheus.NewCounterVec(
            prometheus.CounterOpts{
                Name: "cancellations_total",
                Help: "Total number of order cancellation attempts",
            },
            []string{"status"},
        ),
    }

    reg.MustRegister(
        m.HTTPRequestsTotal,
        m.HTTPRequestDuration,
        m.CheckoutsTotal,
        m.CancellationsTotal,
    )

    return m
}
