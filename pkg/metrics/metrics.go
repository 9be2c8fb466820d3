// Package metrics provides Prometheus metrics for Tributary connectors.
// It exposes package-level collectors for the request, retry, rate limit,
// and pagination paths, plus a per-connector Collector façade so connector
// code never touches label plumbing directly.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by connector, method, and status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tributary_requests_total",
			Help: "Total HTTP requests issued, including retried attempts",
		},
		[]string{"connector", "method", "status"},
	)

	// RequestDuration tracks per-attempt HTTP latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tributary_request_duration_seconds",
			Help:    "HTTP request latency per attempt",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"connector", "method"},
	)

	// RetriesTotal counts retried attempts by connector
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tributary_retries_total",
			Help: "Total request attempts that failed and were retried",
		},
		[]string{"connector"},
	)

	// PagesTotal counts pages yielded by pagination strategy
	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tributary_pages_total",
			Help: "Total pages yielded by paginators",
		},
		[]string{"connector", "strategy"},
	)

	// PaginationTerminations counts paginations ended early by a fetch error
	PaginationTerminations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tributary_pagination_terminated_total",
			Help: "Paginations converted to end-of-data by a fetch error",
		},
		[]string{"connector", "strategy"},
	)

	// RateLimitWaitSeconds accumulates time spent blocked on the limiter
	RateLimitWaitSeconds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tributary_rate_limit_wait_seconds_total",
			Help: "Cumulative time spent waiting for rate limit admission",
		},
		[]string{"connector"},
	)
)

// Collector records metrics for a single connector instance.
type Collector struct {
	connector string
	enabled   bool
}

// NewCollector creates a collector labeled with the connector name.
// A disabled collector is a no-op, so callers never branch on config.
func NewCollector(connector string, enabled bool) *Collector {
	return &Collector{connector: connector, enabled: enabled}
}

// RecordRequest records one HTTP attempt. A zero status means the request
// never produced a response (transport failure).
func (c *Collector) RecordRequest(method string, status int, duration time.Duration) {
	if !c.enabled {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RequestsTotal.WithLabelValues(c.connector, method, label).Inc()
	RequestDuration.WithLabelValues(c.connector, method).Observe(duration.Seconds())
}

// RecordRetry records a failed attempt that will be retried
func (c *Collector) RecordRetry() {
	if !c.enabled {
		return
	}
	RetriesTotal.WithLabelValues(c.connector).Inc()
}

// RecordPage records a yielded page for the given strategy
func (c *Collector) RecordPage(strategy string) {
	if !c.enabled {
		return
	}
	PagesTotal.WithLabelValues(c.connector, strategy).Inc()
}

// RecordTermination records a pagination ended early by a fetch error
func (c *Collector) RecordTermination(strategy string) {
	if !c.enabled {
		return
	}
	PaginationTerminations.WithLabelValues(c.connector, strategy).Inc()
}

// RecordRateLimitWait records time spent blocked on the limiter
func (c *Collector) RecordRateLimitWait(d time.Duration) {
	if !c.enabled {
		return
	}
	RateLimitWaitSeconds.WithLabelValues(c.connector).Add(d.Seconds())
}
